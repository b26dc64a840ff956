package repository

import (
	"context"
	"errors"
	"time"

	"github.com/mrleocoder/coderbds/internal/model"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicate         = errors.New("duplicate key")
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrStateConflict is returned by conditional writes whose expected
	// state no longer holds.
	ErrStateConflict = errors.New("state conflict")
)

type Page struct {
	Skip  int64
	Limit int64
}

// Sort orders a listing query. Field is one of created_at, price, area, views.
type Sort struct {
	Field string
	Asc   bool
}

type UserFilter struct {
	Role   model.Role
	Status model.UserStatus
	Page   Page
}

type TransactionFilter struct {
	UserID string
	Type   model.TransactionType
	Status model.TransactionStatus
	Page   Page
}

type MemberPostFilter struct {
	AuthorID string
	Status   model.PostStatus
	PostType model.PostType
	Page     Page
}

type PropertyFilter struct {
	PropertyType model.PropertyType
	Status       model.ListingStatus
	City         string // case-insensitive substring
	District     string // case-insensitive substring
	MinPrice     *float64
	MaxPrice     *float64
	MinArea      *float64
	MaxArea      *float64
	Bedrooms     *int
	Bathrooms    *int
	Featured     *bool
	Sort         Sort
	Page         Page
}

type LandFilter struct {
	LandType model.LandType
	Status   model.ListingStatus
	City     string
	District string
	MinPrice *float64
	MaxPrice *float64
	MinArea  *float64
	MaxArea  *float64
	Featured *bool
	Sort     Sort
	Page     Page
}

type SimFilter struct {
	Network  string
	SimType  string
	IsVIP    *bool
	MinPrice *float64
	MaxPrice *float64
	Featured *bool
	Sort     Sort
	Page     Page
}

type NewsFilter struct {
	Category  string
	Published *bool
	Page      Page
}

type TicketFilter struct {
	Status   model.TicketStatus
	Priority model.TicketPriority
	Page     Page
}

// StatusChange describes a conditional ledger transition.
type StatusChange struct {
	ID         string
	Type       model.TransactionType
	From       model.TransactionStatus
	To         model.TransactionStatus
	AdminNotes string
	At         time.Time
}

type Users interface {
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetMany(ctx context.Context, ids []string) (map[string]*model.User, error)
	List(ctx context.Context, f UserFilter) ([]model.User, error)
	Count(ctx context.Context, f UserFilter) (int64, error)
	// Update writes profile, status and login fields. The wallet balance is
	// never written here.
	Update(ctx context.Context, u *model.User) error
	TouchLogin(ctx context.Context, id string, at time.Time) error
	// Debit decrements the balance only if it covers amount. On
	// ErrInsufficientFunds the returned value is the current balance.
	Debit(ctx context.Context, id string, amount float64) (float64, error)
	Credit(ctx context.Context, id string, amount float64) (float64, error)
}

type Transactions interface {
	Insert(ctx context.Context, t *model.Transaction) error
	GetByID(ctx context.Context, id string) (*model.Transaction, error)
	List(ctx context.Context, f TransactionFilter) ([]model.Transaction, error)
	Count(ctx context.Context, f TransactionFilter) (int64, error)
	Transition(ctx context.Context, c StatusChange) (*model.Transaction, error)
}

type MemberPosts interface {
	Insert(ctx context.Context, p *model.MemberPost) error
	GetByID(ctx context.Context, id string) (*model.MemberPost, error)
	List(ctx context.Context, f MemberPostFilter) ([]model.MemberPost, error)
	Count(ctx context.Context, f MemberPostFilter) (int64, error)
	// Update replaces the post if its stored status is one of expect.
	Update(ctx context.Context, p *model.MemberPost, expect ...model.PostStatus) error
	// Delete removes the post if its stored status is one of expect (any
	// status when expect is empty).
	Delete(ctx context.Context, id string, expect ...model.PostStatus) error
}

// Store is the common shape of the public listing collections.
type Store[T any, F any] interface {
	Insert(ctx context.Context, v *T) error
	// Upsert inserts or replaces the record with the same id.
	Upsert(ctx context.Context, v *T) error
	GetByID(ctx context.Context, id string) (*T, error)
	// View increments the view counter and returns the updated record.
	View(ctx context.Context, id string) (*T, error)
	List(ctx context.Context, f F) ([]T, error)
	Count(ctx context.Context, f F) (int64, error)
	Update(ctx context.Context, v *T) error
	Delete(ctx context.Context, id string) error
}

type Properties interface {
	Store[model.Property, PropertyFilter]
}

type Lands interface {
	Store[model.Land, LandFilter]
}

type Sims interface {
	Store[model.Sim, SimFilter]
}

type NewsArticles interface {
	Store[model.NewsArticle, NewsFilter]
}

type Tickets interface {
	Create(ctx context.Context, t *model.Ticket) error
	GetByID(ctx context.Context, id string) (*model.Ticket, error)
	List(ctx context.Context, f TicketFilter) ([]model.Ticket, error)
	Count(ctx context.Context, f TicketFilter) (int64, error)
	Update(ctx context.Context, t *model.Ticket) error
}

// Transactor runs fn as one unit of work. Repository calls made with the
// context handed to fn take part in it.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Set bundles every store the services need.
type Set struct {
	Users        Users
	Transactions Transactions
	MemberPosts  MemberPosts
	Properties   Properties
	Lands        Lands
	Sims         Sims
	News         NewsArticles
	Tickets      Tickets
	Tx           Transactor
}
