//go:build integration

package store

import (
	"context"
	"testing"

	"proofsy/internal/platform/database"
	"proofsy/pkg/testutil/containers"

	"github.com/stretchr/testify/suite"
)

type PostgresContractSuite struct {
	ContractSuite
	postgres *containers.PostgresContainer
}

func TestPostgresContract(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresContractSuite))
}

func (s *PostgresContractSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	store := NewSQL(s.postgres.DB, database.DriverPostgres)
	s.Require().NoError(store.Migrate(context.Background()))
	s.newStore = func() ledgerStore { return store }
}

func (s *PostgresContractSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "ledger_records", "idempotency_keys", "media_records"))
	s.ContractSuite.SetupTest()
}
