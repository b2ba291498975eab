package notify_test

import (
	"sync"
	"testing"
	"time"

	"github.com/serroba/shortlink-client/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// owner mimics a coordinator: it pushes under its own lock and drains after
// releasing it.
type owner struct {
	mu    sync.Mutex
	value int
	queue *notify.Queue[int]
}

func (o *owner) set(v int) {
	o.mu.Lock()
	o.value = v
	drain := o.queue.Push(v)
	o.mu.Unlock()

	if drain {
		o.queue.Drain()
	}
}

func (o *owner) get() int {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.value
}

func TestQueue(t *testing.T) {
	t.Run("delivers in push order", func(t *testing.T) {
		var seen []int

		o := &owner{}
		o.queue = notify.New(func(v int) { seen = append(seen, v) })

		for i := 1; i <= 5; i++ {
			o.set(i)
		}

		assert.Equal(t, []int{1, 2, 3, 4, 5}, seen)
	})

	t.Run("listener may read the owner while another goroutine pushes", func(t *testing.T) {
		entered := make(chan struct{})
		release := make(chan struct{})

		var once sync.Once

		o := &owner{}
		o.queue = notify.New(func(int) {
			once.Do(func() {
				close(entered)
				<-release
			})
			o.get()
		})

		go o.set(1)
		<-entered

		done := make(chan struct{})

		go func() {
			o.set(2)
			close(done)
		}()

		require.Eventually(t, func() bool {
			select {
			case <-done:
				return true
			default:
				return false
			}
		}, time.Second, 5*time.Millisecond)

		close(release)
		assert.Eventually(t, func() bool { return o.get() == 2 }, time.Second, 5*time.Millisecond)
	})

	t.Run("listener may push from inside a call", func(t *testing.T) {
		var seen []int

		o := &owner{}
		o.queue = notify.New(func(v int) {
			seen = append(seen, v)
			if v == 1 {
				o.set(2)
			}
		})

		o.set(1)

		assert.Equal(t, []int{1, 2}, seen)
	})

	t.Run("nil listener never drains", func(t *testing.T) {
		assert.False(t, notify.New[int](nil).Push(1))
	})
}
