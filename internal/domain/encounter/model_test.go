package encounter

import (
	"testing"
	"time"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusScheduled, StatusWaiting, true},
		{StatusWaiting, StatusInService, true},
		{StatusInService, StatusResultsReady, true},
		{StatusResultsReady, StatusAttended, true},
		{StatusOnlineQueued, StatusOnlineWaiting, true},
		{StatusOnlineQueued, StatusOnlineInCall, true},
		{StatusOnlineWaiting, StatusOnlineInCall, true},
		{StatusOnlineInCall, StatusAttended, true},
		{StatusWaiting, StatusResultsReady, false},
		{StatusScheduled, StatusInService, false},
		{StatusAttended, StatusWaiting, false},
		{StatusAttended, StatusAttended, false},
		{StatusResultsReady, StatusInService, false},
		{StatusOnlineInCall, StatusOnlineQueued, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestEveryNonTerminalReachesAttended(t *testing.T) {
	for status := range statusGraph {
		if status.Terminal() {
			continue
		}
		if !CanTransition(status, StatusAttended) {
			t.Errorf("attended not reachable from %s", status)
		}
	}
}

func TestStatusTerminal(t *testing.T) {
	if !StatusAttended.Terminal() {
		t.Error("attended must be terminal")
	}
	if StatusWaiting.Terminal() {
		t.Error("waiting must not be terminal")
	}
}

func TestPriorityRank(t *testing.T) {
	if PriorityCritical.Rank() <= PriorityHigh.Rank() {
		t.Error("critical must outrank high")
	}
	if PriorityHigh.Rank() <= PriorityMedium.Rank() {
		t.Error("high must outrank medium")
	}
	if PriorityMedium.Rank() <= PriorityLow.Rank() {
		t.Error("medium must outrank low")
	}
}

func TestPriorityValid(t *testing.T) {
	if !PriorityLow.Valid() {
		t.Error("low is a valid priority")
	}
	if Priority("urgent").Valid() {
		t.Error("urgent is not a valid priority")
	}
}

func TestSortQueue_Stable(t *testing.T) {
	base := time.Now()
	encs := []*Encounter{
		{PatientName: "b", Priority: PriorityMedium, ArrivedAt: base.Add(time.Minute)},
		{PatientName: "c", Priority: PriorityCritical, ArrivedAt: base.Add(2 * time.Minute)},
		{PatientName: "a", Priority: PriorityMedium, ArrivedAt: base},
	}
	SortQueue(encs)

	want := []string{"c", "a", "b"}
	for i, name := range want {
		if encs[i].PatientName != name {
			t.Errorf("encs[%d] = %s, want %s", i, encs[i].PatientName, name)
		}
	}
}
