package models

// SettingSuperAdminCreated records whether a SuperAdmin account exists.
const SettingSuperAdminCreated = "isSuperAdminCreated"

type Setting struct {
	Key   string      `bson:"key" json:"key"`
	Value interface{} `bson:"value" json:"value"`
}
