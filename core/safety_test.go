package core

import "testing"

func TestSupervisorNeverTripsBelowThreshold(t *testing.T) {
	sup := Supervisor{HardAbortThreshold: 1000}
	for n := uint32(0); n < 1000; n++ {
		if sup.Observe(n) {
			t.Fatalf("tripped at %d shorts, threshold is 1000", n)
		}
	}
}

func TestSupervisorTripsAtThreshold(t *testing.T) {
	sup := Supervisor{HardAbortThreshold: 1000}
	if !sup.Observe(1000) {
		t.Fatal("did not trip at threshold")
	}
	if !sup.Tripped() {
		t.Fatal("Tripped() = false after trip")
	}
}

func TestSupervisorLatchesTrip(t *testing.T) {
	sup := Supervisor{HardAbortThreshold: 10}
	sup.Observe(10)
	// The short run length dropping back must not clear the abort.
	if !sup.Observe(0) {
		t.Fatal("trip did not latch")
	}
}
