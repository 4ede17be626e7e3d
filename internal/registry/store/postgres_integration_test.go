//go:build integration

package store_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"tokenhome/internal/registry/store"
	id "tokenhome/pkg/domain"
	"tokenhome/pkg/platform/sentinel"
	"tokenhome/pkg/testutil/containers"
)

type PostgresLedgerSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	ledger   *store.Postgres
	ctx      context.Context
}

func TestPostgresLedgerSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresLedgerSuite))
}

func (s *PostgresLedgerSuite) SetupSuite() {
	s.ctx = context.Background()
	s.postgres = containers.NewPostgresContainer(s.T())
	s.ledger = store.NewPostgres(s.postgres.DB)
	s.Require().NoError(s.ledger.Migrate(s.ctx))
}

func (s *PostgresLedgerSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(s.ctx, "tokens"))
	_, err := s.postgres.DB.ExecContext(s.ctx,
		`UPDATE registry_state SET next_id = 1, live_count = 0, base_uri = '', base_extension = '.json'`)
	s.Require().NoError(err)
}

func testAddr(b byte) id.Address {
	var a id.Address
	a[id.AddressLen-1] = b
	return a
}

func (s *PostgresLedgerSuite) TestMintBurnRoundtrip() {
	first, err := s.ledger.MintNext(s.ctx, testAddr(1), nil)
	s.Require().NoError(err)
	s.Equal(id.TokenID(1), first)

	holder, err := s.ledger.Holder(s.ctx, first)
	s.Require().NoError(err)
	s.Equal(testAddr(1), holder)

	st, err := s.ledger.State(s.ctx)
	s.Require().NoError(err)
	s.Equal(id.TokenID(2), st.NextID)
	s.Equal(uint64(1), st.LiveCount)

	s.Require().NoError(s.ledger.Burn(s.ctx, first, nil))

	_, err = s.ledger.Holder(s.ctx, first)
	s.ErrorIs(err, sentinel.ErrNotFound)
	st, err = s.ledger.State(s.ctx)
	s.Require().NoError(err)
	s.Equal(id.TokenID(2), st.NextID, "burn must not rewind the counter")
	s.Equal(uint64(0), st.LiveCount)
}

func (s *PostgresLedgerSuite) TestCallbackErrorRollsBackTransaction() {
	boom := errors.New("receiver says no")
	_, err := s.ledger.MintNext(s.ctx, testAddr(1), func(id.TokenID) error { return boom })
	s.Require().ErrorIs(err, boom)

	st, err := s.ledger.State(s.ctx)
	s.Require().NoError(err)
	s.Equal(id.TokenID(1), st.NextID)
	s.Equal(uint64(0), st.LiveCount)

	tokenID, err := s.ledger.MintNext(s.ctx, testAddr(2), nil)
	s.Require().NoError(err)

	denied := errors.New("not the holder")
	err = s.ledger.Burn(s.ctx, tokenID, func(id.Address) error { return denied })
	s.Require().ErrorIs(err, denied)

	holder, err := s.ledger.Holder(s.ctx, tokenID)
	s.Require().NoError(err)
	s.Equal(testAddr(2), holder)
}

func (s *PostgresLedgerSuite) TestConfigReturnsOldValues() {
	old, err := s.ledger.SetBaseURI(s.ctx, "https://meta.example/")
	s.Require().NoError(err)
	s.Equal("", old)

	old, err = s.ledger.SetBaseURI(s.ctx, "ipfs://bafy/")
	s.Require().NoError(err)
	s.Equal("https://meta.example/", old)

	old, err = s.ledger.SetBaseExtension(s.ctx, ".meta")
	s.Require().NoError(err)
	s.Equal(".json", old)
}

// TestConcurrentMintsAssignDistinctIDs hammers MintNext from many goroutines
// and verifies the FOR UPDATE lock serializes allocation.
func (s *PostgresLedgerSuite) TestConcurrentMintsAssignDistinctIDs() {
	const goroutines = 25

	var wg sync.WaitGroup
	var mu sync.Mutex
	seen := make(map[id.TokenID]bool)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(b byte) {
			defer wg.Done()
			tokenID, err := s.ledger.MintNext(s.ctx, testAddr(b), nil)
			if err != nil {
				return
			}
			mu.Lock()
			seen[tokenID] = true
			mu.Unlock()
		}(byte(i + 1))
	}
	wg.Wait()

	s.Len(seen, goroutines, "every mint must get a distinct id")
	st, err := s.ledger.State(s.ctx)
	s.Require().NoError(err)
	s.Equal(uint64(goroutines), st.LiveCount)
	s.Equal(id.TokenID(goroutines+1), st.NextID)
}
