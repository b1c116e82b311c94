package transition

import (
	"context"
	"errors"
	"math"
	"testing"
)

func TestUpdateFirstCallHasNoActivation(t *testing.T) {
	m := newTestModel(t, 3)
	act, err := m.Update(context.Background(), []float64{1, 0, 0}, 1)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(act) != 9 {
		t.Fatalf("len(activations) = %d, want 9", len(act))
	}
	for k, a := range act {
		if a != 0 {
			t.Fatalf("activation[%d] = %v, want 0 on first call", k, a)
		}
	}
	want := []float64{1, 0, 0}
	for i, e := range m.Effect() {
		if e != want[i] {
			t.Fatalf("Effect() = %v, want %v", m.Effect(), want)
		}
	}
	if m.NumFeatureInputs() != 3 {
		t.Fatalf("NumFeatureInputs() = %d, want 3", m.NumFeatureInputs())
	}
	if m.CurrentReward() != 1 {
		t.Fatalf("CurrentReward() = %v, want 1", m.CurrentReward())
	}
}

func TestUpdateLearnsTransition(t *testing.T) {
	ctx := context.Background()
	m := newTestModel(t, 3)
	if _, err := m.Update(ctx, []float64{1, 0, 0}, 1); err != nil {
		t.Fatalf("Update: %v", err)
	}
	act, err := m.Update(ctx, []float64{0, 1, 0}, 1)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	// cause = 0, effect = 1 lives at row-major index 0*3+1.
	if math.Abs(act[1]-1) > 1e-9 {
		t.Fatalf("activation[0->1] = %v, want ~1", act[1])
	}
	for k, a := range act {
		if k != 1 && a != 0 {
			t.Fatalf("activation[%d] = %v, want 0", k, a)
		}
	}

	if c := m.Count().At(0, 1); c <= 0 {
		t.Fatalf("count[0,1] = %v, want > 0", c)
	}
	if v := m.RewardValue().At(0, 1); math.Abs(v-0.5) > 1e-9 {
		t.Fatalf("reward_value[0,1] = %v, want 0.5 (rate capped at 0.5)", v)
	}
	if u := m.RewardUncertainty().At(0, 1); math.Abs(u-0.75) > 1e-9 {
		t.Fatalf("reward_uncertainty[0,1] = %v, want 0.75", u)
	}
	if v := m.RewardValue().At(1, 0); v != 0 {
		t.Fatalf("reverse transition reward_value[1,0] = %v, want 0", v)
	}

	cause := m.Cause()
	if math.Abs(cause[0]-1) > 1e-9 || cause[1] != 0 || cause[2] != 0 {
		t.Fatalf("Cause() = %v, want ~[1 0 0]", cause)
	}
}

func TestUpdateCauseTraceDecays(t *testing.T) {
	ctx := context.Background()
	m := newTestModel(t, 2)
	steps := [][]float64{{0.5, 0}, {0, 0}, {0, 0}}
	for _, in := range steps {
		if _, err := m.Update(ctx, in, 0); err != nil {
			t.Fatalf("Update: %v", err)
		}
	}
	// After the pulse reaches the trace it only decays by (1 - 0.33) per step.
	got := m.Cause()[0]
	if math.Abs(got-0.5*0.67) > 1e-9 {
		t.Fatalf("cause[0] = %v, want %v", got, 0.5*0.67)
	}
}

func TestUpdateRewardConverges(t *testing.T) {
	ctx := context.Background()
	m := newTestModel(t, 2)
	for i := 0; i < 200; i++ {
		in := []float64{1, 0}
		if i%2 == 1 {
			in = []float64{0, 1}
		}
		if _, err := m.Update(ctx, in, 0.8); err != nil {
			t.Fatalf("Update: %v", err)
		}
	}
	if v := m.RewardValue().At(0, 1); math.Abs(v-0.8) > 1e-3 {
		t.Fatalf("reward_value[0,1] = %v, want ~0.8", v)
	}
	if u := m.RewardUncertainty().At(0, 1); u > 0.01 {
		t.Fatalf("reward_uncertainty[0,1] = %v, want near zero for a constant reward", u)
	}
}

func TestUpdateZeroInputLeavesEstimates(t *testing.T) {
	ctx := context.Background()
	m := newTestModel(t, 3, WithSeed(3))
	for _, in := range [][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}} {
		if _, err := m.Update(ctx, in, 0.6); err != nil {
			t.Fatalf("Update: %v", err)
		}
	}
	value, unc := m.RewardValue(), m.RewardUncertainty()

	for step := 0; step < 5; step++ {
		act, err := m.Update(ctx, []float64{0, 0, 0}, 0)
		if err != nil {
			t.Fatalf("Update: %v", err)
		}
		for k, a := range act {
			if a != 0 {
				t.Fatalf("step %d activation[%d] = %v, want 0", step, k, a)
			}
		}
	}

	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if got := m.RewardValue().At(i, j); got != value.At(i, j) {
				t.Fatalf("reward_value[%d,%d] changed %v -> %v", i, j, value.At(i, j), got)
			}
			if got := m.RewardUncertainty().At(i, j); got != unc.At(i, j) {
				t.Fatalf("reward_uncertainty[%d,%d] changed %v -> %v", i, j, unc.At(i, j), got)
			}
		}
	}
}

func TestUpdateHighWaterMark(t *testing.T) {
	ctx := context.Background()
	m := newTestModel(t, 4)
	widths := []int{2, 1, 3, 0, 2}
	want := []int{2, 2, 3, 3, 3}
	for i, w := range widths {
		if _, err := m.Update(ctx, make([]float64, w), 0); err != nil {
			t.Fatalf("Update: %v", err)
		}
		if m.NumFeatureInputs() != want[i] {
			t.Fatalf("after width %d NumFeatureInputs() = %d, want %d", w, m.NumFeatureInputs(), want[i])
		}
	}
}

func TestUpdateRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		input  []float64
		reward float64
		want   error
	}{
		{name: "too long", input: []float64{0, 0, 0, 0}, reward: 0, want: ErrInputTooLong},
		{name: "negative activity", input: []float64{0, -0.1}, reward: 0, want: ErrInvalidActivity},
		{name: "NaN activity", input: []float64{math.NaN()}, reward: 0, want: ErrInvalidActivity},
		{name: "infinite activity", input: []float64{math.Inf(1)}, reward: 0, want: ErrInvalidActivity},
		{name: "activity above one", input: []float64{2, 0}, reward: 0, want: ErrInvalidActivity},
		{name: "reward above one", input: []float64{1}, reward: 1.5, want: ErrRewardOutOfRange},
		{name: "negative reward", input: []float64{1}, reward: -0.5, want: ErrRewardOutOfRange},
		{name: "NaN reward", input: []float64{1}, reward: math.NaN(), want: ErrRewardOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t, 3)
			_, err := m.Update(context.Background(), tt.input, tt.reward)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Update() err = %v, want %v", err, tt.want)
			}
			if m.TimeSteps() != 0 || m.NumFeatureInputs() != 0 {
				t.Fatalf("rejected update changed state: TimeSteps=%d NumFeatureInputs=%d", m.TimeSteps(), m.NumFeatureInputs())
			}
			for _, e := range m.Effect() {
				if e != 0 {
					t.Fatalf("rejected update changed effect: %v", m.Effect())
				}
			}
		})
	}
}

func TestUpdateSaturatedInputStaysBounded(t *testing.T) {
	ctx := context.Background()
	m := newTestModel(t, 2, WithRand(fixedSource{0.5}))
	for step := 0; step < 20; step++ {
		act, err := m.Update(ctx, []float64{1, 1}, 1)
		if err != nil {
			t.Fatalf("step %d: Update: %v", step, err)
		}
		for k, a := range act {
			if a < 0 || a > 1 {
				t.Fatalf("step %d: activation[%d] = %v, want within [0,1]", step, k, a)
			}
		}
		if _, err := m.Deliberate(ctx, make([]float64, 4)); err != nil {
			t.Fatalf("step %d: Deliberate: %v", step, err)
		}
		for i, c := range m.Cause() {
			if c < 0 || c > 1 {
				t.Fatalf("step %d: cause[%d] = %v, want within [0,1]", step, i, c)
			}
		}
		for i, g := range m.Goal() {
			if g < 0 || g > 1 {
				t.Fatalf("step %d: goal[%d] = %v, want within [0,1]", step, i, g)
			}
		}
	}

	if _, err := m.Update(ctx, []float64{2, 0}, 0); !errors.Is(err, ErrInvalidActivity) {
		t.Fatalf("Update(activity 2) err = %v, want %v", err, ErrInvalidActivity)
	}
	for i, c := range m.Cause() {
		if c < 0 || c > 1 {
			t.Fatalf("after rejected update: cause[%d] = %v, want within [0,1]", i, c)
		}
	}
}

func TestUpdateDoesNotAliasInput(t *testing.T) {
	m := newTestModel(t, 2)
	in := []float64{1, 0}
	if _, err := m.Update(context.Background(), in, 0); err != nil {
		t.Fatalf("Update: %v", err)
	}
	in[0] = 0.25
	if m.Effect()[0] != 1 {
		t.Fatalf("model effect follows caller slice: %v", m.Effect())
	}
}
