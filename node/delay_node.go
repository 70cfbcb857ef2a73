package node

import (
	"fmt"
	"time"

	"github.com/Stelujin-Datacraft/topsqill/model"
)

var _ Node = new(delayNode)

type delayNode struct {
	baseNode
	delay time.Duration
}

func NewDelayNode(delaySeconds int, base baseNode) *delayNode {
	return &delayNode{
		baseNode: base,
		delay:    time.Duration(delaySeconds) * time.Second,
	}
}

func (d *delayNode) GetDelay() time.Duration {
	return d.delay
}

func (d *delayNode) Validate() error {
	if d.delay <= 0 {
		return fmt.Errorf("nodeId=%d, delay value %v is invalid", d.id, d.delay)
	}
	return d.requireNext("default")
}

func (d *delayNode) Execute(wfName string, flowContext *model.FlowContext) (string, map[string]any, error) {
	return "default", nil, nil
}
