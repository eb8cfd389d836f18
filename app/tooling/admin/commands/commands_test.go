package commands_test

import (
	"context"
	"testing"

	"github.com/ardanlabs/powledger/app/tooling/admin/commands"
	"github.com/ardanlabs/powledger/foundation/blockchain/state"
	"github.com/ardanlabs/powledger/foundation/blockchain/storage/memory"
)

const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Verify(t *testing.T) {
	st, err := state.New(state.Config{
		HostID:  "A",
		Host:    "localhost:9080",
		Storage: memory.New(),
	})
	if err != nil {
		t.Fatalf("constructing state: %v", err)
	}

	for range 2 {
		if _, err := st.MineBlock(context.Background()); err != nil {
			t.Fatalf("mining block: %v", err)
		}
	}

	t.Log("Given the need to verify a saved chain.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen the chain was mined by a node.", testID)
		{
			if err := commands.Verify(st.Chain()); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould verify the chain: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould verify the chain.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen a block no longer links to its parent.", testID)
		{
			chain := st.Chain()
			chain[2].PreviousHash = chain[0].Hash()

			if err := commands.Verify(chain); err == nil {
				t.Fatalf("\t%s\tTest %d:\tShould reject the chain.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould reject the chain.", success, testID)
		}
	}
}
