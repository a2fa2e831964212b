package testutil

import (
	"time"

	"github.com/google/uuid"
)

// Fixed identifiers and dates for deterministic tests.
var (
	TestAnalysisID1 = uuid.MustParse("00000000-0000-0000-0000-000000000101")
	TestAnalysisID2 = uuid.MustParse("00000000-0000-0000-0000-000000000102")
	TestEventID     = uuid.MustParse("00000000-0000-0000-0000-000000000201")

	TestContractNumber = "CCB-2024-000123"
	TestBankName       = "Banco Exemplo S.A."
	TestCustomerDoc    = "123.456.789-09"

	TestNow = time.Date(2024, 7, 15, 12, 0, 0, 0, time.UTC)
)
