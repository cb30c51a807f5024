package catalog

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebouncer_RunsOnlyLastCall(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)

	var calls int32
	var last int32
	for i := 1; i <= 5; i++ {
		n := int32(i)
		d.Trigger(func() {
			atomic.AddInt32(&calls, 1)
			atomic.StoreInt32(&last, n)
		})
		time.Sleep(5 * time.Millisecond)
	}

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(5), atomic.LoadInt32(&last))

	// nothing else fires later
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestDebouncer_StopCancelsPending(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)

	var calls int32
	d.Trigger(func() { atomic.AddInt32(&calls, 1) })
	d.Stop()

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestLiveSearch_PublishesSameResultAsFilter(t *testing.T) {
	items := appetizersAndSalads()
	s := NewLiveSearch(items, 20*time.Millisecond)
	defer s.Close()

	for _, q := range []string{"c", "ch", "chi", "chic", "chicken"} {
		s.SetQuery(q)
	}
	s.SetCategory("Appetizers")

	select {
	case result := <-s.Results():
		assert.Equal(t, "chicken", result.Query)
		assert.Equal(t, "Appetizers", result.Category)
		expected := Filter(items, "chicken", "Appetizers")
		require.Len(t, result.Items, len(expected))
		for i := range expected {
			assert.Equal(t, expected[i].ID, result.Items[i].ID)
		}
	case <-time.After(time.Second):
		t.Fatal("no result published")
	}

	// one quiescent burst yields one result
	select {
	case <-s.Results():
		t.Fatal("unexpected second result")
	case <-time.After(60 * time.Millisecond):
	}
}

func TestLiveSearch_ResultCarriesItsOwnQuery(t *testing.T) {
	items := appetizersAndSalads()
	s := NewLiveSearch(items, 10*time.Millisecond)
	defer s.Close()

	s.SetQuery("salad")
	time.Sleep(40 * time.Millisecond)
	// input moves on before the published result is read
	s.SetQuery("chicken")

	result := <-s.Results()
	assert.Equal(t, "salad", result.Query)
	assert.Len(t, result.Items, len(Filter(items, "salad", "")))
}
