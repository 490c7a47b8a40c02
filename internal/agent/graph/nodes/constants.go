package nodes

// Graph node keys.
const (
	NodeClassify  = "classify"
	NodeGather    = "gather"
	NodeItinerary = "plan_itinerary"
	NodeExplore   = "explore"
	NodePacking   = "packing"
	NodeChat      = "chat"
	NodeFinalize  = "finalize"
)

// BranchNodes maps each synthesize branch to the node that produces it.
var BranchNodes = map[string]bool{
	NodeItinerary: true,
	NodeExplore:   true,
	NodePacking:   true,
	NodeChat:      true,
}
