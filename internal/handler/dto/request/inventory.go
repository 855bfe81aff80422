package request

// Delta is signed: positive restocks, negative writes off damaged or lost
// units. Zero is rejected by binding.
type AdjustInventoryRequest struct {
	Delta  int32  `json:"delta" binding:"required"`
	Reason string `json:"reason"`
}
