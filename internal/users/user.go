package users

import (
	"net/url"
	"strings"
	"time"

	"MockShop/internal/resource"
)

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

type User struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

func (u User) RecordID() int { return u.ID }

func (u User) WithID(id int) User {
	u.ID = id
	return u
}

// ListItem is the list-view projection; it leaves out createdAt.
type ListItem struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
	IsActive  bool   `json:"isActive"`
}

// Profile is what a successful authentication returns about the user.
type Profile struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

func (u User) ListItem() ListItem {
	return ListItem{
		ID: u.ID, Username: u.Username, Email: u.Email,
		FirstName: u.FirstName, LastName: u.LastName,
		Role: u.Role, IsActive: u.IsActive,
	}
}

func (u User) Profile() Profile {
	return Profile{
		ID: u.ID, Username: u.Username, Email: u.Email,
		FirstName: u.FirstName, LastName: u.LastName, Role: u.Role,
	}
}

// Input is the body of create and update requests. Nil fields were absent.
// Clients may also send a password on create; it is not stored.
type Input struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Role      *string `json:"role"`
	IsActive  *bool   `json:"isActive"`
}

func Seed() []User {
	return []User{
		{ID: 1, Username: "john_doe", Email: "john@example.com", FirstName: "John", LastName: "Doe",
			Role: RoleCustomer, IsActive: true, CreatedAt: mustTime("2024-01-15T10:30:00Z")},
		{ID: 2, Username: "jane_smith", Email: "jane@example.com", FirstName: "Jane", LastName: "Smith",
			Role: RoleAdmin, IsActive: true, CreatedAt: mustTime("2024-01-10T08:15:00Z")},
		{ID: 3, Username: "bob_wilson", Email: "bob@example.com", FirstName: "Bob", LastName: "Wilson",
			Role: RoleCustomer, IsActive: false, CreatedAt: mustTime("2024-02-01T14:20:00Z")},
	}
}

func NewStore() *resource.MemStore[User] {
	return resource.NewMemStore(Seed()...)
}

func Kind() resource.Kind[User, Input] {
	return resource.Kind[User, Input]{
		Name:            "User",
		CheckCreate:     checkCreate,
		CheckUpdate:     checkUpdate,
		Build:           build,
		Apply:           apply,
		Filter:          filter,
		Unique:          []resource.Conflict[User]{sameIdentity},
		ConflictMessage: "Username or email already exists",
		View:            func(u User) any { return u },
		ListView:        func(u User) any { return u.ListItem() },
	}
}

func sameIdentity(existing, candidate User) bool {
	return existing.Username == candidate.Username || existing.Email == candidate.Email
}

func checkCreate(in Input, _ resource.UpdateMode) error {
	if !nonEmpty(in.Username) || !nonEmpty(in.Email) || !nonEmpty(in.FirstName) || !nonEmpty(in.LastName) {
		return resource.Invalid("Username, email, firstName, and lastName are required")
	}
	return checkRole(in)
}

func checkUpdate(in Input, mode resource.UpdateMode) error {
	if mode == resource.UpdatePresent &&
		(blank(in.Username) || blank(in.Email) || blank(in.FirstName) || blank(in.LastName)) {
		return resource.Invalid("Username, email, firstName, and lastName cannot be empty")
	}
	return checkRole(in)
}

func checkRole(in Input) error {
	if in.Role == nil || *in.Role == "" {
		return nil
	}
	if *in.Role != RoleCustomer && *in.Role != RoleAdmin {
		return resource.Invalid("Role must be customer or admin")
	}
	return nil
}

func build(in Input, now time.Time) User {
	u := User{
		Username:  *in.Username,
		Email:     *in.Email,
		FirstName: *in.FirstName,
		LastName:  *in.LastName,
		Role:      RoleCustomer,
		IsActive:  true,
		CreatedAt: now,
	}
	if nonEmpty(in.Role) {
		u.Role = *in.Role
	}
	return u
}

func apply(u User, in Input, mode resource.UpdateMode) User {
	resource.Assign(&u.Username, in.Username, mode)
	resource.Assign(&u.Email, in.Email, mode)
	resource.Assign(&u.FirstName, in.FirstName, mode)
	resource.Assign(&u.LastName, in.LastName, mode)
	if nonEmpty(in.Role) {
		u.Role = *in.Role
	}
	resource.Assign(&u.IsActive, in.IsActive, mode)
	return u
}

func filter(q url.Values) func(User) bool {
	role := q.Get("role")
	active, hasActive := q["active"]

	if role == "" && !hasActive {
		return nil
	}
	wantActive := hasActive && strings.EqualFold(active[0], "true")

	return func(u User) bool {
		if role != "" && !strings.EqualFold(u.Role, role) {
			return false
		}
		if hasActive && u.IsActive != wantActive {
			return false
		}
		return true
	}
}

func nonEmpty(s *string) bool { return s != nil && *s != "" }

func blank(s *string) bool { return s != nil && strings.TrimSpace(*s) == "" }

func mustTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}
