package types

type CurrentUser struct {
	UserId   int `json:"userId"`
	OfficeId int `json:"officeId"`
}

type Member struct {
	UserId       int    `json:"userId"`
	OfficeId     int    `json:"officeId,omitempty"`
	Name         string `json:"name,omitempty"`
	Email        string `json:"email,omitempty"`
	ProfileImage string `json:"profileImage,omitempty"`
	DeptName     string `json:"deptName,omitempty"`
	JobName      string `json:"jobName,omitempty"`
	// Connected and RoomId are presence data kept on the client only.
	Connected bool `json:"connected"`
	RoomId    int  `json:"roomId,omitempty"`
}

type Todo struct {
	TodoId   int    `json:"todoId"`
	UserId   int    `json:"userId"`
	OfficeId int    `json:"officeId"`
	Day      string `json:"day"`
	Done     bool   `json:"done"`
	Text     string `json:"text"`
}

type Room struct {
	RoomId   int    `json:"roomId"`
	RoomName string `json:"roomName"`
	OfficeId int    `json:"officeId,omitempty"`
}

type Notification struct {
	NotiId    int    `json:"notiId"`
	Type      string `json:"type,omitempty"`
	Content   string `json:"content,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// Dept and Job are reference records passed through as received.
type Dept map[string]any

type Job map[string]any

// Connection is the presence metadata reported for a connected member.
type Connection struct {
	RoomId int `json:"roomId"`
}

type TodoParams struct {
	UserId   int    `json:"userId"`
	OfficeId int    `json:"officeId"`
	Day      string `json:"day"`
	Text     string `json:"text"`
}

type RoomParams struct {
	RoomName string `json:"roomName"`
	OfficeId int    `json:"officeId,omitempty"`
}

type OfficeRegistration struct {
	OfficeName string `json:"officeName"`
	Domain     string `json:"domain,omitempty"`
	AdminName  string `json:"name"`
	AdminEmail string `json:"email"`
	Phone      string `json:"phone,omitempty"`
}

type Office struct {
	OfficeId   int    `json:"officeId"`
	OfficeName string `json:"officeName"`
	Domain     string `json:"domain,omitempty"`
}
