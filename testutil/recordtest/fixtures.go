// Package recordtest provides shared fixtures for testing the activerecord
// packages: a User record type with schema and materializer, a Document
// type with a generated string key, and executor test doubles.
package recordtest

import (
	"fmt"
	"time"

	"github.com/kofrasa/activerecord-go/activerecord"
)

// User is the main query-test fixture, keyed by a numeric id.
type User struct {
	ID        int64
	Name      string
	Email     string
	Password  string
	Country   string
	Age       int64
	CreatedAt time.Time
}

// UserColumns lists the columns of the users fixture table in order.
func UserColumns() []string {
	return []string{"id", "name", "email", "password", "country", "age", "created_at"}
}

// UserSchema returns a users schema without any access policy.
func UserSchema() activerecord.Schema {
	schema, err := activerecord.NewSchema("users", UserColumns())
	if err != nil {
		panic(fmt.Sprintf("building users schema: %v", err))
	}

	return schema
}

// GuardedUserSchema returns a users schema with password protected for
// writes and hidden from serialization.
func GuardedUserSchema() activerecord.Schema {
	schema, err := activerecord.NewSchema(
		"users",
		UserColumns(),
		activerecord.WithProtected("password"),
		activerecord.WithHidden("password"),
	)
	if err != nil {
		panic(fmt.Sprintf("building guarded users schema: %v", err))
	}

	return schema
}

// AllowlistUserSchema returns a users schema where only name and country
// are mass-assignable.
func AllowlistUserSchema() activerecord.Schema {
	schema, err := activerecord.NewSchema(
		"users",
		UserColumns(),
		activerecord.WithAccessible("name", "country"),
		activerecord.WithProtected("password"),
		activerecord.WithHidden("password"),
	)
	if err != nil {
		panic(fmt.Sprintf("building allowlist users schema: %v", err))
	}

	return schema
}

// UserMaterializer converts between users rows and User entities.
func UserMaterializer() activerecord.Materializer[User] {
	return activerecord.MaterializerFuncs[User]{
		MaterializeFunc:   materializeUser,
		DematerializeFunc: dematerializeUser,
	}
}

func materializeUser(row activerecord.Row) (User, error) {
	var user User

	if value, ok := row["id"]; ok {
		id, err := asInt64(value)
		if err != nil {
			return User{}, fmt.Errorf("user id: %w", err)
		}
		user.ID = id
	}

	user.Name = asString(row["name"])
	user.Email = asString(row["email"])
	user.Password = asString(row["password"])
	user.Country = asString(row["country"])

	if value, ok := row["age"]; ok && value != nil {
		age, err := asInt64(value)
		if err != nil {
			return User{}, fmt.Errorf("user age: %w", err)
		}
		user.Age = age
	}

	if value, ok := row["created_at"].(time.Time); ok {
		user.CreatedAt = value
	}

	return user, nil
}

func dematerializeUser(user User) (activerecord.Attrs, error) {
	return activerecord.Attrs{
		"id":         user.ID,
		"name":       user.Name,
		"email":      user.Email,
		"password":   user.Password,
		"country":    user.Country,
		"age":        user.Age,
		"created_at": user.CreatedAt,
	}, nil
}

// UserRow builds a users fixture row.
func UserRow(id int64, name string, country string, age int64) activerecord.Row {
	return activerecord.Row{
		"id":         id,
		"name":       name,
		"email":      fmt.Sprintf("%s@example.com", name),
		"password":   "secret",
		"country":    country,
		"age":        age,
		"created_at": time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

// Document is a fixture keyed by a generated string id, for create paths.
type Document struct {
	ID    string
	Title string
	Body  string
}

// DocumentSchema returns the documents schema.
func DocumentSchema() activerecord.Schema {
	schema, err := activerecord.NewSchema("documents", []string{"id", "title", "body"})
	if err != nil {
		panic(fmt.Sprintf("building documents schema: %v", err))
	}

	return schema
}

// DocumentMaterializer converts between documents rows and Document entities.
func DocumentMaterializer() activerecord.Materializer[Document] {
	return activerecord.MaterializerFuncs[Document]{
		MaterializeFunc: func(row activerecord.Row) (Document, error) {
			return Document{
				ID:    asString(row["id"]),
				Title: asString(row["title"]),
				Body:  asString(row["body"]),
			}, nil
		},
		DematerializeFunc: func(doc Document) (activerecord.Attrs, error) {
			return activerecord.Attrs{"id": doc.ID, "title": doc.Title, "body": doc.Body}, nil
		},
	}
}

func asInt64(value any) (int64, error) {
	switch v := value.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case uint64:
		return int64(v), nil
	case float64:
		return int64(v), nil
	default:
		return 0, fmt.Errorf("unexpected numeric type %T", value)
	}
}

func asString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}
