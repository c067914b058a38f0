package entities

import "time"

// FeedPost is a message on the community feed.
type FeedPost struct {
	ID        string    `json:"_id"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	Message   string    `json:"message"`
	Image     string    `json:"image"`
	Likes     []Like    `json:"likes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Like is a reaction left on a feed post.
type Like struct {
	ReactorUserID   string `json:"reactorUserId"`
	ReactorUserName string `json:"reactorUserName"`
}

// FeedSchema guards the feeds collection.
var FeedSchema = NewSchema[FeedPost]("feeds",
	"userId",
	"userName",
	"message",
	"image",
	"likes",
)
