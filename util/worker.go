package util

import (
	"sync"

	"github.com/Stelujin-Datacraft/topsqill/logger"
	"go.uber.org/zap"
)

type Task any

// Worker drains a buffered channel of tasks on a single goroutine. Handler
// errors are logged and do not stop the worker.
type Worker struct {
	name     string
	stop     chan struct{}
	wg       *sync.WaitGroup
	handler  func(Task) error
	taskChan chan Task
}

func NewWorker(name string, wg *sync.WaitGroup, handler func(Task) error, capacity int) *Worker {
	return &Worker{
		taskChan: make(chan Task, capacity),
		name:     name,
		wg:       wg,
		stop:     make(chan struct{}),
		handler:  handler,
	}
}

func (w *Worker) Start() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			select {
			case task := <-w.taskChan:
				if err := w.handler(task); err != nil {
					logger.Error("error executing task in worker", zap.String("worker", w.name), zap.Any("task", task), zap.Error(err))
				}
			case <-w.stop:
				logger.Info("stopping worker", zap.String("worker", w.name))
				return
			}
		}
	}()
}

func (w *Worker) Sender() chan<- Task {
	return w.taskChan
}

func (w *Worker) Stop() {
	w.stop <- struct{}{}
}

// Drain handles any tasks still buffered in the channel. Call after Stop,
// once no sender is active.
func (w *Worker) Drain() {
	for {
		select {
		case task := <-w.taskChan:
			if err := w.handler(task); err != nil {
				logger.Error("error executing task in worker", zap.String("worker", w.name), zap.Any("task", task), zap.Error(err))
			}
		default:
			return
		}
	}
}
