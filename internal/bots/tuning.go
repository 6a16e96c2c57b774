package bots

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// Tuning holds the cost weights shared by every difficulty tier.
type Tuning struct {
	LeadTrumpPenalty   int
	FollowTrumpPenalty int
	LosePenalty        int

	// Hard tier.
	HighValueThreshold   int
	HighValueBonus       int
	LowValueBonus        int
	EndgameRemaining     int
	HardTrumpPenalty     int
	EndgameTrumpPenalty  int
	StakeThreshold       int
	HighStakeLossPenalty int
	LowStakeLossPenalty  int

	// EasyRandomRate is the chance the easy bot ignores scoring altogether.
	EasyRandomRate float64
}

var DefaultTuning = Tuning{
	LeadTrumpPenalty:   100,
	FollowTrumpPenalty: 50,
	LosePenalty:        200,

	HighValueThreshold:   12,
	HighValueBonus:       60,
	LowValueBonus:        20,
	EndgameRemaining:     6,
	HardTrumpPenalty:     40,
	EndgameTrumpPenalty:  10,
	StakeThreshold:       10,
	HighStakeLossPenalty: 80,
	LowStakeLossPenalty:  20,

	EasyRandomRate: 0.65,
}

// LoadTuning runs the Lua script at path and overrides DefaultTuning with the
// fields of its global "tuning" table, e.g.
//
//	tuning = { lose_penalty = 150, easy_random_rate = 0.5 }
//
// Unknown keys are an error so typos don't silently fall back to defaults.
func LoadTuning(path string) (Tuning, error) {
	L, err := newSandbox()
	if err != nil {
		return Tuning{}, err
	}
	defer L.Close()

	if err := L.DoFile(path); err != nil {
		return Tuning{}, fmt.Errorf("run tuning script %s: %w", path, err)
	}
	return tuningFromLua(L)
}

// ParseTuning is LoadTuning for an in-memory script.
func ParseTuning(script string) (Tuning, error) {
	L, err := newSandbox()
	if err != nil {
		return Tuning{}, err
	}
	defer L.Close()

	if err := L.DoString(script); err != nil {
		return Tuning{}, fmt.Errorf("run tuning script: %w", err)
	}
	return tuningFromLua(L)
}

// newSandbox opens only the pure libraries. Scripts cannot load files or
// reach io and os.
func newSandbox() (*lua.LState, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	libs := []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	}
	for _, lib := range libs {
		err := L.CallByParam(lua.P{Fn: L.NewFunction(lib.open), NRet: 0, Protect: true}, lua.LString(lib.name))
		if err != nil {
			L.Close()
			return nil, fmt.Errorf("open lua %s library: %w", lib.name, err)
		}
	}
	for _, name := range []string{"dofile", "loadfile", "require"} {
		L.SetGlobal(name, lua.LNil)
	}
	return L, nil
}

func tuningFromLua(L *lua.LState) (Tuning, error) {
	t := DefaultTuning
	tbl, ok := L.GetGlobal("tuning").(*lua.LTable)
	if !ok {
		return Tuning{}, fmt.Errorf("tuning script must define a global table named tuning")
	}

	ints := map[string]*int{
		"lead_trump_penalty":      &t.LeadTrumpPenalty,
		"follow_trump_penalty":    &t.FollowTrumpPenalty,
		"lose_penalty":            &t.LosePenalty,
		"high_value_threshold":    &t.HighValueThreshold,
		"high_value_bonus":        &t.HighValueBonus,
		"low_value_bonus":         &t.LowValueBonus,
		"endgame_remaining":       &t.EndgameRemaining,
		"hard_trump_penalty":      &t.HardTrumpPenalty,
		"endgame_trump_penalty":   &t.EndgameTrumpPenalty,
		"stake_threshold":         &t.StakeThreshold,
		"high_stake_loss_penalty": &t.HighStakeLossPenalty,
		"low_stake_loss_penalty":  &t.LowStakeLossPenalty,
	}

	var err error
	tbl.ForEach(func(k, v lua.LValue) {
		if err != nil {
			return
		}
		key, ok := k.(lua.LString)
		if !ok {
			err = fmt.Errorf("tuning key %v is not a string", k)
			return
		}
		n, ok := v.(lua.LNumber)
		if !ok {
			err = fmt.Errorf("tuning.%s: want number, got %s", key, v.Type())
			return
		}
		if key == "easy_random_rate" {
			if n < 0 || n > 1 {
				err = fmt.Errorf("tuning.easy_random_rate %v out of [0,1]", n)
				return
			}
			t.EasyRandomRate = float64(n)
			return
		}
		dst, ok := ints[string(key)]
		if !ok {
			err = fmt.Errorf("unknown tuning key %q", string(key))
			return
		}
		*dst = int(n)
	})
	if err != nil {
		return Tuning{}, err
	}
	return t, nil
}
