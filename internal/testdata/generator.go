// Package testdata builds synthetic users and orders for demos and tests.
package testdata

import (
	"math"
	"math/rand"

	"github.com/jask/orderview/internal/source"
	"github.com/jask/orderview/internal/state"
)

var (
	firstNames = []string{"Ada", "Grace", "Alan", "Edsger", "Barbara", "Ken", "Margaret", "Dennis", "Frances", "Linus"}
	lastNames  = []string{"Lovelace", "Hopper", "Turing", "Dijkstra", "Liskov", "Thompson", "Hamilton", "Ritchie", "Allen", "Torvalds"}
)

// Generate returns a fixture with users numbered from 1 and up to maxOrders
// orders each. Order ids are userID*1000+n so they never collide. The same
// seed always yields the same fixture.
func Generate(seed int64, users, maxOrders int) source.Fixture {
	r := rand.New(rand.NewSource(seed))
	fx := source.Fixture{
		Users:  make([]state.User, 0, users),
		Orders: make([]state.Order, 0, users*maxOrders/2),
	}
	for i := 1; i <= users; i++ {
		id := int64(i)
		name := firstNames[r.Intn(len(firstNames))] + " " + lastNames[r.Intn(len(lastNames))]
		fx.Users = append(fx.Users, state.User{ID: id, Name: name})
		if maxOrders <= 0 {
			continue
		}
		n := r.Intn(maxOrders + 1)
		for j := 1; j <= n; j++ {
			total := math.Round((5+r.Float64()*1995)*100) / 100
			fx.Orders = append(fx.Orders, state.Order{ID: id*1000 + int64(j), UserID: id, Total: total})
		}
	}
	return fx
}
