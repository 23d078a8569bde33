package world

import "hexreign.gg/internal/sim/model"

// intentHandler mutates the already-cloned snapshot and reports the outcome.
// Handlers validate first and return early; state is touched only once every
// check has passed, so a rejection leaves the clone identical to the input.
type intentHandler func(e *Engine, s *model.Snapshot, in model.Intent) model.Outcome

var intentDispatch = map[model.IntentKind]intentHandler{
	model.IntentAdvanceTime:       handleAdvanceTime,
	model.IntentPlaceStart:        handlePlaceStart,
	model.IntentBuildSettlement:   handleBuildSettlement,
	model.IntentUpgradeSettlement: handleUpgradeSettlement,
	model.IntentAllocateRoles:     handleAllocateRoles,
	model.IntentSetPolicy:         handleSetPolicy,
	model.IntentUseDeityPower:     handleUseDeityPower,
	model.IntentRaidSettlement:    handleRaidSettlement,
}
