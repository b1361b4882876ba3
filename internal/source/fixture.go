package source

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jask/orderview/internal/database/repository"
	"github.com/jask/orderview/internal/state"
)

// Fixture is the seed data set for a Source.
//
//	users:
//	  - {id: 1, name: John Doe}
//	orders:
//	  - {id: 101, userId: 1, total: 1200}
type Fixture struct {
	Users  []state.User  `yaml:"users"`
	Orders []state.Order `yaml:"orders"`
}

// DefaultFixture is the demo data set: four users and nine orders.
func DefaultFixture() Fixture {
	return Fixture{
		Users: []state.User{
			{ID: 1, Name: "John Doe"},
			{ID: 2, Name: "Jane Smith"},
			{ID: 3, Name: "Bob Johnson"},
			{ID: 4, Name: "Alice Williams"},
		},
		Orders: []state.Order{
			{ID: 101, UserID: 1, Total: 1200},
			{ID: 102, UserID: 1, Total: 25},
			{ID: 103, UserID: 1, Total: 75},
			{ID: 201, UserID: 2, Total: 350},
			{ID: 202, UserID: 2, Total: 150},
			{ID: 301, UserID: 3, Total: 450},
			{ID: 302, UserID: 3, Total: 300},
			{ID: 303, UserID: 3, Total: 80},
			{ID: 401, UserID: 4, Total: 600},
		},
	}
}

// LoadFixture reads a YAML fixture. An empty path yields DefaultFixture.
func LoadFixture(path string) (Fixture, error) {
	if path == "" {
		return DefaultFixture(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, fmt.Errorf("read fixture: %w", err)
	}
	return ParseFixture(data)
}

// ParseFixture decodes YAML and rejects duplicate ids.
func ParseFixture(data []byte) (Fixture, error) {
	var fx Fixture
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return Fixture{}, fmt.Errorf("parse fixture: %w", err)
	}
	if err := fx.Validate(); err != nil {
		return Fixture{}, err
	}
	return fx, nil
}

// Validate rejects duplicate user or order ids.
func (fx Fixture) Validate() error {
	seen := make(map[int64]bool, len(fx.Users))
	for _, u := range fx.Users {
		if seen[u.ID] {
			return fmt.Errorf("fixture: duplicate user id %d", u.ID)
		}
		seen[u.ID] = true
	}
	seen = make(map[int64]bool, len(fx.Orders))
	for _, o := range fx.Orders {
		if seen[o.ID] {
			return fmt.Errorf("fixture: duplicate order id %d", o.ID)
		}
		seen[o.ID] = true
	}
	return nil
}

// Rows converts the fixture into repository rows for seeding sqlite.
func (fx Fixture) Rows() ([]repository.User, []repository.Order) {
	users := make([]repository.User, 0, len(fx.Users))
	for _, u := range fx.Users {
		users = append(users, repository.User{ID: u.ID, Name: u.Name})
	}
	orders := make([]repository.Order, 0, len(fx.Orders))
	for _, o := range fx.Orders {
		orders = append(orders, repository.Order{ID: o.ID, UserID: o.UserID, Total: o.Total})
	}
	return users, orders
}
