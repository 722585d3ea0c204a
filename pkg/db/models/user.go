package models

// User is an operator account (usuarios). Password holds an argon2id hash or a legacy plaintext value.
type User struct {
	Code        int64  `gorm:"column:codigo_usuario;primaryKey;autoIncrement"`
	Username    string `gorm:"column:usuario;size:60;not null;uniqueIndex"`
	Password    string `gorm:"column:clave;size:255;not null"`
	DisplayName string `gorm:"column:nombre_usuario;size:120"`
	ProfileCode int64  `gorm:"column:codigo_perfil;not null;default:0"`
}

func (User) TableName() string { return "usuarios" }
