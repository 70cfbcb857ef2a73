package flow

import (
	"fmt"
	"strings"

	"github.com/Stelujin-Datacraft/topsqill/model"
	"github.com/Stelujin-Datacraft/topsqill/node"
)

type Statehandler string

const NOOP Statehandler = "NOOP"
const NOTIFY Statehandler = "NOTIFY"
const ARCHIVE Statehandler = "ARCHIVE"

func ValidateStateHandler(handler string) error {
	if handler == "" {
		return nil
	}
	switch Statehandler(strings.ToUpper(handler)) {
	case NOOP, NOTIFY, ARCHIVE:
		return nil
	}
	return fmt.Errorf("invalid state handler %s", handler)
}

// Flow is the executable form of a stored workflow definition.
type Flow struct {
	Id             string
	RootNode       int
	Nodes          map[int]node.Node
	FailureHandler Statehandler
	SuccessHandler Statehandler
}

// Convert builds an executable flow from a workflow definition. The
// definition is assumed validated.
func Convert(wf *model.Workflow, id string) (*Flow, error) {
	nodeMap := make(map[int]node.Node)
	for _, nodeDef := range wf.Nodes {
		n, err := node.Build(nodeDef)
		if err != nil {
			return nil, err
		}
		nodeMap[nodeDef.Id] = n
	}
	return &Flow{
		Id:             id,
		RootNode:       wf.RootNode,
		Nodes:          nodeMap,
		FailureHandler: stateHandler(wf.OnFailure),
		SuccessHandler: stateHandler(wf.OnSuccess),
	}, nil
}

func stateHandler(handler string) Statehandler {
	if handler == "" {
		return NOOP
	}
	return Statehandler(strings.ToUpper(handler))
}
