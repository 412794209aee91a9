package model

// Role defines what a user is allowed to do
type Role string

const (
	RoleSuperadmin Role = "superadmin" // Manages admins and global stats
	RoleAdmin      Role = "admin"      // Manages checklists and employees for own shops
	RoleWorker     Role = "worker"     // Completes checklists
)

// User represents a registered employee or manager
type User struct {
	ID       string `json:"id" bson:"_id,omitempty"`
	ChatID   int64  `json:"chatId" bson:"chatId"` // Conversation identity from the bot front-end
	FullName string `json:"fullName" bson:"fullName"`
	Role     Role   `json:"role" bson:"role"`
	ShopID   string `json:"shopId" bson:"shopId"`
	Position string `json:"position" bson:"position"`
}

// AdminShop links an admin to a shop they manage
type AdminShop struct {
	ID          string `json:"id" bson:"_id,omitempty"`
	AdminChatID int64  `json:"adminChatId" bson:"adminChatId"`
	ShopName    string `json:"shopName" bson:"shopName"`
}
