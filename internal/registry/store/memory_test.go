package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	id "tokenhome/pkg/domain"
	"tokenhome/pkg/platform/sentinel"
)

type MemoryLedgerSuite struct {
	suite.Suite
	ledger *InMemory
	ctx    context.Context
}

func TestMemoryLedgerSuite(t *testing.T) {
	suite.Run(t, new(MemoryLedgerSuite))
}

func (s *MemoryLedgerSuite) SetupTest() {
	s.ledger = NewInMemory()
	s.ctx = context.Background()
}

func addr(b byte) id.Address {
	var a id.Address
	a[id.AddressLen-1] = b
	return a
}

func (s *MemoryLedgerSuite) TestInitialState() {
	st, err := s.ledger.State(s.ctx)
	s.Require().NoError(err)
	s.Equal(id.TokenID(1), st.NextID)
	s.Equal(uint64(0), st.LiveCount)
	s.Equal("", st.BaseURI)
	s.Equal(".json", st.BaseExtension)
}

func (s *MemoryLedgerSuite) TestMintNext() {
	s.Run("assigns sequential ids starting at 1", func() {
		for want := id.TokenID(1); want <= 3; want++ {
			got, err := s.ledger.MintNext(s.ctx, addr(1), nil)
			s.Require().NoError(err)
			s.Equal(want, got)
		}
		st, err := s.ledger.State(s.ctx)
		s.Require().NoError(err)
		s.Equal(id.TokenID(4), st.NextID)
		s.Equal(uint64(3), st.LiveCount)
	})

	s.Run("records the holder", func() {
		got, err := s.ledger.MintNext(s.ctx, addr(7), nil)
		s.Require().NoError(err)
		holder, err := s.ledger.Holder(s.ctx, got)
		s.Require().NoError(err)
		s.Equal(addr(7), holder)
	})

	s.Run("accept error rolls everything back", func() {
		before, err := s.ledger.State(s.ctx)
		s.Require().NoError(err)

		boom := errors.New("receiver says no")
		var seen id.TokenID
		_, err = s.ledger.MintNext(s.ctx, addr(2), func(allocated id.TokenID) error {
			seen = allocated
			return boom
		})
		s.Require().ErrorIs(err, boom)
		s.Equal(before.NextID, seen, "callback sees the id that would have been assigned")

		after, err := s.ledger.State(s.ctx)
		s.Require().NoError(err)
		s.Equal(before.NextID, after.NextID, "counter must not advance on rejection")
		s.Equal(before.LiveCount, after.LiveCount)
		_, err = s.ledger.Holder(s.ctx, seen)
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *MemoryLedgerSuite) TestBurn() {
	s.Run("removes the record and decrements live count", func() {
		tokenID, err := s.ledger.MintNext(s.ctx, addr(1), nil)
		s.Require().NoError(err)

		s.Require().NoError(s.ledger.Burn(s.ctx, tokenID, nil))

		_, err = s.ledger.Holder(s.ctx, tokenID)
		s.ErrorIs(err, sentinel.ErrNotFound)
		st, err := s.ledger.State(s.ctx)
		s.Require().NoError(err)
		s.Equal(uint64(0), st.LiveCount)
	})

	s.Run("never reuses a burned id", func() {
		first, err := s.ledger.MintNext(s.ctx, addr(1), nil)
		s.Require().NoError(err)
		s.Require().NoError(s.ledger.Burn(s.ctx, first, nil))

		next, err := s.ledger.MintNext(s.ctx, addr(1), nil)
		s.Require().NoError(err)
		s.Greater(next, first)
	})

	s.Run("unknown id returns ErrNotFound", func() {
		err := s.ledger.Burn(s.ctx, 9999, nil)
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("allow error keeps the record", func() {
		tokenID, err := s.ledger.MintNext(s.ctx, addr(3), nil)
		s.Require().NoError(err)
		before, err := s.ledger.State(s.ctx)
		s.Require().NoError(err)

		denied := errors.New("not the holder")
		err = s.ledger.Burn(s.ctx, tokenID, func(holder id.Address) error {
			s.Equal(addr(3), holder)
			return denied
		})
		s.Require().ErrorIs(err, denied)

		holder, err := s.ledger.Holder(s.ctx, tokenID)
		s.Require().NoError(err)
		s.Equal(addr(3), holder)
		after, err := s.ledger.State(s.ctx)
		s.Require().NoError(err)
		s.Equal(before.LiveCount, after.LiveCount)
	})
}

func (s *MemoryLedgerSuite) TestConfig() {
	s.Run("SetBaseURI returns the previous value", func() {
		old, err := s.ledger.SetBaseURI(s.ctx, "https://meta.example/")
		s.Require().NoError(err)
		s.Equal("", old)

		old, err = s.ledger.SetBaseURI(s.ctx, "ipfs://bafy/")
		s.Require().NoError(err)
		s.Equal("https://meta.example/", old)
	})

	s.Run("SetBaseExtension returns the previous value", func() {
		old, err := s.ledger.SetBaseExtension(s.ctx, "")
		s.Require().NoError(err)
		s.Equal(".json", old)
	})
}

// TestSupplyInvariant exercises interleaved mints and burns and checks the
// live count against the reachable records after every step.
func (s *MemoryLedgerSuite) TestSupplyInvariant() {
	live := make(map[id.TokenID]bool)

	check := func() {
		st, err := s.ledger.State(s.ctx)
		s.Require().NoError(err)
		s.Equal(uint64(len(live)), st.LiveCount)
		for tokenID := range live {
			_, err := s.ledger.Holder(s.ctx, tokenID)
			s.Require().NoError(err)
		}
	}

	for i := 0; i < 10; i++ {
		tokenID, err := s.ledger.MintNext(s.ctx, addr(byte(i+1)), nil)
		s.Require().NoError(err)
		live[tokenID] = true
		check()

		if i%3 == 0 {
			s.Require().NoError(s.ledger.Burn(s.ctx, tokenID, nil))
			delete(live, tokenID)
			check()
		}
	}
}
