package connection

import "github.com/barista-systems/ecamctl/internal/protocol"

// Phase is the coarse machine status a caller actually wants to branch
// on, collapsing MonitorV2's raw state/alarm/switch fields into one of
// eight mutually exclusive conditions.
type Phase int

const (
	PhaseTurningOn Phase = iota
	PhaseShuttingDown
	PhaseCleaning
	PhaseBusy
	PhaseDescaling
	PhaseAlarm
	PhaseStandBy
	PhaseReady
)

func (p Phase) String() string {
	switch p {
	case PhaseTurningOn:
		return "TurningOn"
	case PhaseShuttingDown:
		return "ShuttingDown"
	case PhaseCleaning:
		return "Cleaning"
	case PhaseBusy:
		return "Busy"
	case PhaseDescaling:
		return "Descaling"
	case PhaseAlarm:
		return "Alarm"
	case PhaseStandBy:
		return "StandBy"
	case PhaseReady:
		return "Ready"
	default:
		return "Phase(?)"
	}
}

// Status is the projected, UI-friendly view of the last MonitorV2Response.
type Status struct {
	Phase      Phase
	Percentage uint8       // meaningful for TurningOn, ShuttingDown, Cleaning, Busy
	Alarm      Enum8Alarm  // meaningful for PhaseAlarm
}

// Enum8Alarm avoids importing protocol's generic Enum machinery into every
// caller's import list while still exposing the raw alarm value.
type Enum8Alarm = protocol.Enum[protocol.Alarm]

func clampPercent(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return uint8(v)
}

// projectStatus implements the status-projection table: ordering
// TurningOn > ShuttingDown > Cleaning > Busy > Descaling > Alarm > StandBy
// > Ready, first match wins.
func projectStatus(m protocol.MonitorV2Response) Status {
	state, _ := m.State.Value()

	if state == protocol.MachineStateTurningOn {
		return Status{Phase: PhaseTurningOn, Percentage: m.Percentage}
	}
	if state == protocol.MachineStateShuttingDown {
		if m.Percentage < 100 {
			return Status{Phase: PhaseShuttingDown, Percentage: m.Percentage}
		}
		return Status{Phase: PhaseShuttingDown, Percentage: clampPercent(int(m.Progress) * 10)}
	}
	if state == protocol.MachineStateMilkCleaning || state == protocol.MachineStateRinsing {
		return Status{Phase: PhaseCleaning, Percentage: m.Percentage}
	}
	if state == protocol.MachineStateMilkPreparation || state == protocol.MachineStateHotWaterDelivery {
		return Status{Phase: PhaseBusy, Percentage: m.Percentage}
	}
	if state == protocol.MachineStateReadyOrDispensing && m.Progress != 0 {
		return Status{Phase: PhaseBusy, Percentage: m.Percentage}
	}
	if state == protocol.MachineStateDescaling {
		return Status{Phase: PhaseDescaling}
	}
	if alarm, ok := firstAlarm(m.Alarms); ok {
		return Status{Phase: PhaseAlarm, Alarm: alarm}
	}
	if state == protocol.MachineStateStandBy {
		return Status{Phase: PhaseStandBy}
	}
	return Status{Phase: PhaseReady}
}

// firstAlarm returns the lowest-numbered set alarm other than CleanKnob,
// which is informational rather than a fault condition.
func firstAlarm(set protocol.SwitchSet[protocol.Alarm]) (protocol.Enum[protocol.Alarm], bool) {
	bits := set.Bits()
	for i := 0; i < 16; i++ {
		if bits&(1<<uint(i)) == 0 {
			continue
		}
		a := protocol.DecodeAlarm(uint8(i))
		if a.Is(protocol.AlarmCleanKnob) {
			continue
		}
		return a, true
	}
	return protocol.Enum[protocol.Alarm]{}, false
}
