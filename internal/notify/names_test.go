package notify

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/ajorhq/ajor/internal/model"
)

type fakeLookup struct {
	mu      sync.Mutex
	groups  map[string]string
	txDescs map[string]string
	calls   int
}

func (f *fakeLookup) Group(_ context.Context, id string) (*model.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	name, ok := f.groups[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return &model.Group{ID: id, Name: name}, nil
}

func (f *fakeLookup) Transaction(_ context.Context, id string) (*model.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	desc, ok := f.txDescs[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return &model.Transaction{ID: id, Type: model.TxPayout, Description: desc}, nil
}

func TestResolveRelatedNames(t *testing.T) {
	lookup := &fakeLookup{
		groups:  map[string]string{"g1": "Market Women Ajo"},
		txDescs: map[string]string{"t1": "Weekly payout"},
	}
	r := NewResolver(lookup)

	names := r.Resolve(context.Background(), []model.Notification{
		{ID: "1", ContributionID: "g1"},
		{ID: "2", TransactionID: "t1"},
	})

	if names["g1"] != "Market Women Ajo" {
		t.Errorf("group name = %q", names["g1"])
	}
	if names["t1"] != "Weekly payout" {
		t.Errorf("transaction name = %q", names["t1"])
	}
}

func TestResolveMemoizes(t *testing.T) {
	lookup := &fakeLookup{groups: map[string]string{"g1": "Ajo"}}
	r := NewResolver(lookup)

	ns := []model.Notification{{ID: "1", ContributionID: "g1"}, {ID: "2", ContributionID: "g1"}}
	r.Resolve(context.Background(), ns)
	r.Resolve(context.Background(), ns)

	if lookup.calls != 1 {
		t.Errorf("lookup calls = %d, want 1 (memoized)", lookup.calls)
	}
}

func TestResolveFailureYieldsPlaceholder(t *testing.T) {
	r := NewResolver(&fakeLookup{})

	names := r.Resolve(context.Background(), []model.Notification{
		{ID: "1", ContributionID: "missing"},
	})

	if names["missing"] != namePlaceholder {
		t.Errorf("name for failed lookup = %q, want placeholder", names["missing"])
	}
}

func TestTransactionNameFallsBackToType(t *testing.T) {
	lookup := &fakeLookup{txDescs: map[string]string{"t1": ""}}
	r := NewResolver(lookup)

	names := r.Resolve(context.Background(), []model.Notification{
		{ID: "1", TransactionID: "t1"},
	})

	if names["t1"] != string(model.TxPayout) {
		t.Errorf("name = %q, want transaction type", names["t1"])
	}
}
