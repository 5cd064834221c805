package batch

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yutanagano/tidyreceptor/internal/catalog"
	"github.com/yutanagano/tidyreceptor/internal/symbol"
)

func makeItems(n int) <-chan Item {
	ch := make(chan Item, n)
	for i := range n {
		ch <- Item{
			Seq:   i,
			Input: fmt.Sprintf("input-%d", i),
			Extra: i,
		}
	}
	close(ch)
	return ch
}

func TestRun_OrderPreservation(t *testing.T) {
	items := makeItems(200)
	results := Run(items, 8, strings.ToUpper)

	var collected []int
	err := OrderedCollect(results, func(r Outcome[string]) error {
		collected = append(collected, r.Seq)
		return nil
	})
	require.NoError(t, err)

	assert.Len(t, collected, 200)
	for i, seq := range collected {
		assert.Equal(t, i, seq, "result %d out of order", i)
	}
}

func TestRun_SingleWorker(t *testing.T) {
	items := makeItems(50)
	results := Run(items, 1, strings.ToUpper)

	var collected []int
	err := OrderedCollect(results, func(r Outcome[string]) error {
		collected = append(collected, r.Seq)
		return nil
	})
	require.NoError(t, err)
	assert.Len(t, collected, 50)
}

func TestRun_ExtraPreserved(t *testing.T) {
	items := makeItems(10)
	results := Run(items, 4, strings.ToUpper)

	err := OrderedCollect(results, func(r Outcome[string]) error {
		// Extra was set to the sequence number in makeItems
		assert.Equal(t, r.Seq, r.Extra.(int))
		assert.Equal(t, strings.ToUpper(r.Input), r.Result)
		return nil
	})
	require.NoError(t, err)
}

func TestRun_EmptyInput(t *testing.T) {
	ch := make(chan Item)
	close(ch)
	results := Run(ch, 4, strings.ToUpper)

	count := 0
	err := OrderedCollect(results, func(r Outcome[string]) error {
		count++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestOrderedCollect_EarlyError(t *testing.T) {
	items := makeItems(100)
	results := Run(items, 4, strings.ToUpper)

	count := 0
	err := OrderedCollect(results, func(r Outcome[string]) error {
		count++
		if count == 5 {
			return fmt.Errorf("stop at 5")
		}
		return nil
	})
	require.Error(t, err)
	assert.Equal(t, 5, count)
}

func TestRun_StandardizesSymbols(t *testing.T) {
	ctx, err := catalog.Default()
	require.NoError(t, err)
	engine := symbol.NewEngine(ctx)

	inputs := []string{"aj1", "TCRAV32S1", "foobarbaz", "TRBV20"}
	ch := make(chan Item, len(inputs))
	for i, in := range inputs {
		ch <- Item{Seq: i, Input: in}
	}
	close(ch)

	results := Run(ch, 2, func(s string) symbol.Result {
		return engine.Standardize(s, symbol.Options{})
	})

	var genes []string
	err = OrderedCollect(results, func(r Outcome[symbol.Result]) error {
		genes = append(genes, r.Result.Gene())
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"TRAJ1", "TRAV25", "", "TRBV20-1"}, genes)
}
