package service

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/jask/orderview/internal/database/repository"
)

// ImportService loads users and orders from CSV into sqlite.
type ImportService struct {
	Users  *repository.UserRepo
	Orders *repository.OrderRepo
}

type ImportResult struct {
	Users    int
	Imported int
	Skipped  int
	Errors   []error
}

// ImportCSV reads rows of: user_id, user_name, order_id, total. A header row
// is skipped. Users are upserted; an order identical to one already stored
// counts as skipped. Bad rows are collected in Errors and do not stop the
// import.
func (s *ImportService) ImportCSV(ctx context.Context, r io.Reader) (ImportResult, error) {
	res := ImportResult{}
	existing, err := s.existingOrders(ctx)
	if err != nil {
		return res, err
	}
	seenUsers := make(map[int64]string)

	csvr := csv.NewReader(bufio.NewReader(r))
	csvr.TrimLeadingSpace = true
	csvr.FieldsPerRecord = -1
	line := 0
	for {
		line++
		rec, err := csvr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		if line == 1 && isHeader(rec) {
			continue
		}
		if len(rec) < 4 {
			res.Errors = append(res.Errors, fmt.Errorf("line %d: expected 4 columns (user_id, user_name, order_id, total)", line))
			continue
		}
		userID, err := parseID(rec[0])
		if err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("line %d user_id: %w", line, err))
			continue
		}
		name := strings.TrimSpace(rec[1])
		if name == "" {
			res.Errors = append(res.Errors, fmt.Errorf("line %d user_name: %w", line, errors.New("empty")))
			continue
		}
		orderID, err := parseID(rec[2])
		if err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("line %d order_id: %w", line, err))
			continue
		}
		total, err := parseTotal(rec[3])
		if err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("line %d total: %w", line, err))
			continue
		}

		if prev, ok := seenUsers[userID]; !ok || prev != name {
			if err := s.Users.Upsert(ctx, repository.User{ID: userID, Name: name}); err != nil {
				res.Errors = append(res.Errors, fmt.Errorf("line %d user: %w", line, err))
				continue
			}
			if !ok {
				res.Users++
			}
			seenUsers[userID] = name
		}

		o := repository.Order{ID: orderID, UserID: userID, Total: total}
		if prev, ok := existing[orderID]; ok && prev == o {
			res.Skipped++
			continue
		}
		if err := s.Orders.Upsert(ctx, o); err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("line %d order: %w", line, err))
			continue
		}
		existing[orderID] = o
		res.Imported++
	}
	return res, nil
}

func (s *ImportService) existingOrders(ctx context.Context) (map[int64]repository.Order, error) {
	list, err := s.Orders.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	out := make(map[int64]repository.Order, len(list))
	for _, o := range list {
		out[o.ID] = o
	}
	return out, nil
}

func isHeader(rec []string) bool {
	return len(rec) > 0 && strings.EqualFold(strings.TrimSpace(rec[0]), "user_id")
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, fmt.Errorf("id %d must be positive", id)
	}
	return id, nil
}

// parseTotal accepts "1,200.50" style amounts and rounds to cents.
func parseTotal(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	s = strings.TrimPrefix(s, "$")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid total %q", s)
	}
	return math.Round(f*100) / 100, nil
}
