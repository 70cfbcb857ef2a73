package analytics

import (
	"sync"

	"github.com/Stelujin-Datacraft/topsqill/util"
)

type DataCollectorConfig struct {
	FileName      string
	CollectorType DataCollectorType
}

type DataCollectorType string

const LOG_FILE_DATA_COLLECTOR DataCollectorType = "LOG_FILE_DATA_COLLECTOR"
const NOOP_DATA_COLLECTOR DataCollectorType = "NOOP_DATA_COLLECTOR"

// FlowDataCollector receives the audit trail of node executions and flow
// state transitions.
type FlowDataCollector interface {
	RecordNodeSuccess(wfName string, flowId string, nodeName string, nodeId int, data map[string]any)
	RecordNodeFailure(wfName string, flowId string, nodeName string, nodeId int, reason string)
	RecordFlowStateChange(wfName string, flowId string, state string)
}

const recordSuccess = "success"
const recordFailure = "failure"
const recordState = "state"

type record struct {
	kind     string
	wfName   string
	flowId   string
	nodeName string
	nodeId   int
	data     map[string]any
	reason   string
	state    string
}

var flowCollector FlowDataCollector = noopDataCollector{}
var recordWorker *util.Worker
var workerWg sync.WaitGroup

// InitDataCollector sets up the configured collector behind a channel worker
// so record calls never block on collector io.
func InitDataCollector(config DataCollectorConfig) error {
	switch config.CollectorType {
	case LOG_FILE_DATA_COLLECTOR:
		c, err := NewLogFileDataCollector(config.FileName)
		if err != nil {
			return err
		}
		flowCollector = c
	default:
		return nil
	}
	recordWorker = util.NewWorker("analytics", &workerWg, handleRecord, 512)
	recordWorker.Start()
	return nil
}

// Stop shuts down the record worker and flushes any buffered records. Call
// after the engine has stopped so no records arrive during the drain.
func Stop() {
	if recordWorker == nil {
		return
	}
	recordWorker.Stop()
	workerWg.Wait()
	recordWorker.Drain()
	recordWorker = nil
}

func handleRecord(t util.Task) error {
	r := t.(record)
	switch r.kind {
	case recordSuccess:
		flowCollector.RecordNodeSuccess(r.wfName, r.flowId, r.nodeName, r.nodeId, r.data)
	case recordFailure:
		flowCollector.RecordNodeFailure(r.wfName, r.flowId, r.nodeName, r.nodeId, r.reason)
	case recordState:
		flowCollector.RecordFlowStateChange(r.wfName, r.flowId, r.state)
	}
	return nil
}

func submit(r record) {
	if recordWorker == nil {
		return
	}
	recordWorker.Sender() <- r
}

func RecordNodeSuccess(wfName string, flowId string, nodeName string, nodeId int, data map[string]any) {
	submit(record{kind: recordSuccess, wfName: wfName, flowId: flowId, nodeName: nodeName, nodeId: nodeId, data: data})
}

func RecordNodeFailure(wfName string, flowId string, nodeName string, nodeId int, reason string) {
	submit(record{kind: recordFailure, wfName: wfName, flowId: flowId, nodeName: nodeName, nodeId: nodeId, reason: reason})
}

func RecordFlowStateChange(wfName string, flowId string, state string) {
	submit(record{kind: recordState, wfName: wfName, flowId: flowId, state: state})
}

type noopDataCollector struct{}

func (noopDataCollector) RecordNodeSuccess(string, string, string, int, map[string]any) {}
func (noopDataCollector) RecordNodeFailure(string, string, string, int, string)         {}
func (noopDataCollector) RecordFlowStateChange(string, string, string)                  {}
