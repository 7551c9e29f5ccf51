package model

func (dataEntity *UserDataEntity) ToDomain() User {
	return User(*dataEntity)
}

type UserDataEntity struct {
	Id       int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Username string `gorm:"column:username"`
	Password string `gorm:"column:password"`
}

func (dataEntity *UserDataEntity) TableName() string {
	return "main.users"
}

type User struct {
	Id       int64
	Username string
	Password string
}
