package model

import "time"

type NewsArticle struct {
	ID            string    `bson:"_id" json:"id"`
	Title         string    `bson:"title" json:"title"`
	Slug          string    `bson:"slug" json:"slug"`
	Content       string    `bson:"content" json:"content"`
	Excerpt       string    `bson:"excerpt" json:"excerpt"`
	FeaturedImage string    `bson:"featured_image,omitempty" json:"featured_image,omitempty"`
	Category      string    `bson:"category" json:"category"`
	Tags          []string  `bson:"tags" json:"tags"`
	Published     bool      `bson:"published" json:"published"`
	Author        string    `bson:"author" json:"author"`
	Views         int       `bson:"views" json:"views"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at" json:"updated_at"`
}
