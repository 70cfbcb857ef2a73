package analytics

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type LogFileDataCollector struct {
	fileName string
	logger   *zap.Logger
}

func NewLogFileDataCollector(fileName string) (*LogFileDataCollector, error) {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.StacktraceKey = ""
	fileEncoder := zapcore.NewJSONEncoder(encoderConfig)
	logFile, err := os.OpenFile(fileName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	writer := zapcore.AddSync(logFile)
	core := zapcore.NewTee(zapcore.NewCore(fileEncoder, writer, zapcore.InfoLevel))
	logger := zap.New(core)
	return &LogFileDataCollector{
		fileName: fileName,
		logger:   logger,
	}, nil
}

func (lc *LogFileDataCollector) RecordNodeSuccess(wfName string, flowId string, nodeName string, nodeId int, data map[string]any) {
	lc.logger.Info("success", zap.String("name", wfName), zap.String("id", flowId), zap.String("node", nodeName), zap.Int("nodeId", nodeId), zap.Any("data", data))
}

func (lc *LogFileDataCollector) RecordNodeFailure(wfName string, flowId string, nodeName string, nodeId int, reason string) {
	lc.logger.Info("failure", zap.String("name", wfName), zap.String("id", flowId), zap.String("node", nodeName), zap.Int("nodeId", nodeId), zap.String("reason", reason))
}

func (lc *LogFileDataCollector) RecordFlowStateChange(wfName string, flowId string, state string) {
	lc.logger.Info("state", zap.String("name", wfName), zap.String("id", flowId), zap.String("state", state))
}
