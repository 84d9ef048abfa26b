// Package memory is an in-process implementation of the storage ports. A write transaction
// holds the store lock for its whole duration and works on a private copy of the state that
// replaces the live state only on commit, so a failed unit leaves nothing behind.
package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/SscSPs/shop_ledger/internal/apperrors"
	"github.com/SscSPs/shop_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/shop_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/shop_ledger/internal/middleware"
	"github.com/SscSPs/shop_ledger/internal/utils/pagination"
)

type state struct {
	parties     map[string]domain.Party
	products    map[string]domain.Product
	bills       map[string]domain.Bill
	settlements map[string]domain.Settlement
	sequences   map[string]int64
	lastSeq     int64
}

func newState() *state {
	return &state{
		parties:     make(map[string]domain.Party),
		products:    make(map[string]domain.Product),
		bills:       make(map[string]domain.Bill),
		settlements: make(map[string]domain.Settlement),
		sequences:   make(map[string]int64),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.parties {
		c.parties[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.bills {
		c.bills[k] = copyBill(v)
	}
	for k, v := range s.settlements {
		c.settlements[k] = copySettlement(v)
	}
	for k, v := range s.sequences {
		c.sequences[k] = v
	}
	c.lastSeq = s.lastSeq
	return c
}

func copyBill(b domain.Bill) domain.Bill {
	b.Items = append([]domain.LineItem(nil), b.Items...)
	return b
}

func copySettlement(s domain.Settlement) domain.Settlement {
	s.Allocations = append([]domain.Allocation(nil), s.Allocations...)
	return s
}

// Store implements portsrepo.LedgerStore in memory.
type Store struct {
	mu    sync.RWMutex
	state *state
}

var _ portsrepo.LedgerStore = (*Store)(nil)

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{state: newState()}
}

// WithTransaction runs fn against a private copy of the state and publishes it if fn succeeds.
func (s *Store) WithTransaction(ctx context.Context, fn func(tx portsrepo.LedgerTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.state.clone()
	if err := fn(&memTx{st: work}); err != nil {
		middleware.GetLoggerFromCtx(ctx).Debug("memory transaction discarded", slog.String("error", err.Error()))
		return err
	}
	s.state = work
	return nil
}

// --- parties ---

func (s *Store) FindPartyByID(ctx context.Context, partyID string) (*domain.Party, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.state.parties[partyID]
	if !ok {
		return nil, apperrors.ErrPartyNotFound
	}
	return &p, nil
}

func (s *Store) FindPartyByName(ctx context.Context, shopID string, partyType domain.PartyType, normalizedName string) (*domain.Party, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return findPartyByName(s.state, shopID, partyType, normalizedName)
}

func findPartyByName(st *state, shopID string, partyType domain.PartyType, normalizedName string) (*domain.Party, error) {
	for _, p := range st.parties {
		if p.ShopID == shopID && p.Type == partyType && p.NormalizedName == normalizedName {
			found := p
			return &found, nil
		}
	}
	return nil, apperrors.ErrPartyNotFound
}

func (s *Store) ListParties(ctx context.Context, shopID string, filter portsrepo.PartyFilter) ([]domain.Party, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	out := make([]domain.Party, 0)
	for _, p := range s.state.parties {
		if p.ShopID != shopID {
			continue
		}
		if filter.Type != "" && p.Type != filter.Type {
			continue
		}
		if search != "" && !strings.Contains(p.NormalizedName, search) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].NormalizedName == out[j].NormalizedName {
			return out[i].PartyID < out[j].PartyID
		}
		return out[i].NormalizedName < out[j].NormalizedName
	})
	return out, nil
}

// --- products ---

func (s *Store) FindProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.state.products[productID]
	if !ok {
		return nil, apperrors.ErrProductNotFound
	}
	return &p, nil
}

func (s *Store) ListProducts(ctx context.Context, shopID string, filter portsrepo.ProductFilter) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	out := make([]domain.Product, 0)
	for _, p := range s.state.products {
		if p.ShopID != shopID {
			continue
		}
		if filter.Category != "" && !strings.EqualFold(p.Category, filter.Category) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		if filter.LowStockOnly && !p.IsLowStock() {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].ProductID < out[j].ProductID
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (s *Store) ListShopIDs(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]struct{})
	for _, p := range s.state.products {
		seen[p.ShopID] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

// --- bills ---

func (s *Store) FindBillByID(ctx context.Context, billID string) (*domain.Bill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.state.bills[billID]
	if !ok {
		return nil, apperrors.ErrBillNotFound
	}
	b = copyBill(b)
	return &b, nil
}

func (s *Store) ListBills(ctx context.Context, shopID string, filter portsrepo.BillFilter) ([]domain.Bill, *string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var cursor *pagination.Cursor
	if filter.NextToken != nil && *filter.NextToken != "" {
		c, err := pagination.DecodeToken(*filter.NextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		cursor = &c
	}

	out := make([]domain.Bill, 0)
	for _, b := range s.state.bills {
		if b.ShopID != shopID ||
			(filter.Kind != "" && b.Kind != filter.Kind) ||
			(filter.PartyID != "" && b.PartyID != filter.PartyID) ||
			(filter.Mode != "" && b.Mode != filter.Mode) ||
			(filter.OpenOnly && !b.IsOpen()) ||
			!filter.Range.Contains(b.Date) {
			continue
		}
		if cursor != nil && !cursor.After(b.Date, b.Seq) {
			continue
		}
		out = append(out, copyBill(b))
	}
	sort.Slice(out, func(i, j int) bool { return newerFirst(out[i].Date.UnixNano(), out[i].Seq, out[j].Date.UnixNano(), out[j].Seq) })

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
		last := out[len(out)-1]
		token := pagination.EncodeToken(last.Date, last.Seq)
		return out, &token, nil
	}
	return out, nil, nil
}

// --- settlements ---

func (s *Store) FindSettlementByID(ctx context.Context, settlementID string) (*domain.Settlement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.state.settlements[settlementID]
	if !ok {
		return nil, apperrors.ErrSettlementNotFound
	}
	st = copySettlement(st)
	return &st, nil
}

func (s *Store) ListSettlements(ctx context.Context, shopID string, filter portsrepo.SettlementFilter) ([]domain.Settlement, *string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var cursor *pagination.Cursor
	if filter.NextToken != nil && *filter.NextToken != "" {
		c, err := pagination.DecodeToken(*filter.NextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		cursor = &c
	}

	out := make([]domain.Settlement, 0)
	for _, st := range s.state.settlements {
		if st.ShopID != shopID ||
			(filter.Kind != "" && st.Kind != filter.Kind) ||
			(filter.PartyID != "" && st.PartyID != filter.PartyID) ||
			(filter.Mode != "" && st.Mode != filter.Mode) ||
			(filter.Type != "" && st.Type != filter.Type) ||
			(filter.ExcludeAuto && st.Auto) ||
			!filter.Range.Contains(st.Date) {
			continue
		}
		if cursor != nil && !cursor.After(st.Date, st.Seq) {
			continue
		}
		out = append(out, copySettlement(st))
	}
	sort.Slice(out, func(i, j int) bool { return newerFirst(out[i].Date.UnixNano(), out[i].Seq, out[j].Date.UnixNano(), out[j].Seq) })

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
		last := out[len(out)-1]
		token := pagination.EncodeToken(last.Date, last.Seq)
		return out, &token, nil
	}
	return out, nil, nil
}

func newerFirst(dateA, seqA, dateB, seqB int64) bool {
	if dateA == dateB {
		return seqA > seqB
	}
	return dateA > dateB
}
