package transition

import "github.com/zoobzio/capitan"

// Signal definitions for transition model events.
// Signals follow the pattern: becca.<entity>.<event>.
var (
	ModelCreated = capitan.NewSignal(
		"becca.model.created",
		"Transition model allocated with a fixed feature capacity",
	)
	ModelUpdated = capitan.NewSignal(
		"becca.model.updated",
		"Transition statistics updated from feature activity and reward",
	)
	GoalSelected = capitan.NewSignal(
		"becca.goal.selected",
		"Deliberation assigned a new goal feature",
	)
	CallRejected = capitan.NewSignal(
		"becca.model.rejected",
		"Model call rejected before any state changed",
	)
)

// Field keys for transition event data.
var (
	FieldModelName = capitan.NewStringKey("model_name")
	FieldModelID   = capitan.NewStringKey("model_id")
	FieldCapacity  = capitan.NewIntKey("capacity")
	FieldOperation = capitan.NewStringKey("operation") // update, deliberate, projections

	FieldTimeStep       = capitan.NewIntKey("time_step")
	FieldReward         = capitan.NewFloat32Key("reward")
	FieldActiveFeatures = capitan.NewIntKey("active_features")
	FieldActivation     = capitan.NewFloat32Key("total_activation")

	FieldGoalFeature = capitan.NewIntKey("goal_feature")
	FieldGoalValue   = capitan.NewFloat32Key("goal_value")

	FieldError = capitan.NewErrorKey("error")
)
