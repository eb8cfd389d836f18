package mempool_test

import (
	"testing"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/mempool"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestCRUD(t *testing.T) {
	type table struct {
		name     string
		txs      []database.Tx
		included []database.Tx
		left     []database.Tx
	}

	a := database.NewTx("bill", "ale", "s1", 5)
	b := database.NewTx("ale", "bill", "s2", 3)
	c := database.NewTx("bill", "pavel", "s3", 1)

	tt := []table{
		{
			name:     "basic",
			txs:      []database.Tx{a, b, c},
			included: []database.Tx{b, database.NewRewardTx("miner", 10)},
			left:     []database.Tx{a, c},
		},
		{
			name:     "duplicates",
			txs:      []database.Tx{a, a, b},
			included: []database.Tx{a},
			left:     []database.Tx{a, b},
		},
		{
			name:     "signature mismatch",
			txs:      []database.Tx{a},
			included: []database.Tx{database.NewTx("bill", "ale", "other", 5)},
			left:     []database.Tx{a},
		},
	}

	t.Log("Given the need to validate mempool api.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling a set of transactions.", testID)
			{
				f := func(t *testing.T) {
					mp := mempool.New()

					for _, tx := range tst.txs {
						mp.Append(tx)
					}
					if mp.Count() != len(tst.txs) {
						t.Fatalf("\t%s\tTest %d:\tShould be able to add transactions.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to add transactions.", success, testID)

					for i, tx := range mp.Copy() {
						if !tx.Equal(tst.txs[i]) {
							t.Fatalf("\t%s\tTest %d:\tShould keep the submission order.", failed, testID)
						}
					}
					t.Logf("\t%s\tTest %d:\tShould keep the submission order.", success, testID)

					removed := mp.RemoveIncluded(tst.included)
					if removed != len(tst.txs)-len(tst.left) {
						t.Logf("\t%s\tTest %d:\tgot: %d", failed, testID, removed)
						t.Logf("\t%s\tTest %d:\texp: %d", failed, testID, len(tst.txs)-len(tst.left))
						t.Fatalf("\t%s\tTest %d:\tShould remove each included transaction once.", failed, testID)
					}

					left := mp.Copy()
					if len(left) != len(tst.left) {
						t.Fatalf("\t%s\tTest %d:\tShould have the right transactions left.", failed, testID)
					}
					for i := range left {
						if !left[i].Equal(tst.left[i]) {
							t.Fatalf("\t%s\tTest %d:\tShould have the right transactions left.", failed, testID)
						}
					}
					t.Logf("\t%s\tTest %d:\tShould remove each included transaction once.", success, testID)

					mp.Truncate()
					if mp.Count() != 0 {
						t.Fatalf("\t%s\tTest %d:\tShould be able to truncate mempool.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to truncate mempool.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}
