package snake

import (
	"sync"
	"testing"
)

func TestInputSlotLastWriterWins(t *testing.T) {
	var slot InputSlot

	if _, ok := slot.Take(); ok {
		t.Fatal("empty slot should have nothing to take")
	}

	slot.Put(Turn(Up))
	slot.Put(Turn(Left))

	ev, ok := slot.Take()
	if !ok {
		t.Fatal("Take should return the pending event")
	}
	if ev.Kind != EventDirection || ev.Dir != Left {
		t.Errorf("Take = %+v, expected the latest event (left)", ev)
	}
	if _, ok := slot.Take(); ok {
		t.Error("Take should empty the slot")
	}
}

func TestInputSlotConcurrentPut(t *testing.T) {
	var slot InputSlot
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(d Direction) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				slot.Put(Turn(d))
			}
		}(Direction(i % 4))
	}
	wg.Wait()

	if _, ok := slot.Take(); !ok {
		t.Error("slot should hold one event after concurrent writers")
	}
}
