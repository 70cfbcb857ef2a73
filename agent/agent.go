package agent

import (
	"sync"

	"github.com/Stelujin-Datacraft/topsqill/analytics"
	"github.com/Stelujin-Datacraft/topsqill/config"
	"github.com/Stelujin-Datacraft/topsqill/engine"
	"github.com/Stelujin-Datacraft/topsqill/logger"
	"github.com/Stelujin-Datacraft/topsqill/metadata"
	"github.com/Stelujin-Datacraft/topsqill/persistence"
	"github.com/Stelujin-Datacraft/topsqill/persistence/inmem"
	"github.com/Stelujin-Datacraft/topsqill/persistence/redis"
	"github.com/Stelujin-Datacraft/topsqill/rest"
	"github.com/Stelujin-Datacraft/topsqill/service"
)

// Agent wires storage, the flow engine and the http server together from a
// config and owns their lifecycle.
type Agent struct {
	Config                   config.Config
	metadataStorage          metadata.MetadataStorage
	metadataService          metadata.MetadataService
	flowDao                  persistence.FlowDao
	delayQueue               persistence.DelayQueue
	flowEngine               *engine.FlowEngine
	workflowExecutionService *service.WorkflowExecutionService
	httpServer               *rest.Server
	shutdown                 bool
	shutdownLock             sync.Mutex
	wg                       sync.WaitGroup
}

func New(conf config.Config) (*Agent, error) {
	a := &Agent{
		Config: conf,
	}
	setup := []func() error{
		a.setupLogging,
		a.setupStorage,
		a.setupMetadataService,
		a.setupEngine,
		a.setupExecutionService,
		a.setupHttpServer,
		a.loadDefinitions,
	}
	for _, fn := range setup {
		if err := fn(); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (a *Agent) setupLogging() error {
	logger.Configure(a.Config.LogLevel)
	return analytics.InitDataCollector(a.Config.AnalyticsConfig)
}

func (a *Agent) setupStorage() error {
	switch a.Config.StorageType {
	case config.STORAGE_TYPE_REDIS:
		redisConf := redis.Config{
			Addrs:     a.Config.RedisConfig.Addrs,
			Namespace: a.Config.RedisConfig.Namespace,
			PoolSize:  a.Config.RedisConfig.PoolSize,
			Password:  a.Config.RedisConfig.Password,
		}
		a.metadataStorage = redis.NewRedisMetadataStorage(redisConf)
		a.flowDao = redis.NewRedisFlowDao(redisConf)
		a.delayQueue = redis.NewRedisDelayQueue(redisConf)
	default:
		a.metadataStorage = inmem.NewInMemMetadataStorage()
		a.flowDao = inmem.NewInMemFlowDao()
		a.delayQueue = inmem.NewInMemDelayQueue()
	}
	return nil
}

func (a *Agent) setupMetadataService() error {
	a.metadataService = metadata.NewMetadataService(a.metadataStorage)
	return nil
}

func (a *Agent) setupEngine() error {
	a.flowEngine = engine.NewFlowEngine(a.flowDao, a.delayQueue, a.metadataService, &a.wg)
	a.flowEngine.Start()
	return nil
}

func (a *Agent) setupExecutionService() error {
	a.workflowExecutionService = service.NewWorkflowExecutionService(a.flowEngine, a.flowDao)
	return nil
}

func (a *Agent) setupHttpServer() error {
	var err error
	a.httpServer, err = rest.NewServer(a.Config.HttpPort, a.metadataService, a.workflowExecutionService)
	return err
}

func (a *Agent) loadDefinitions() error {
	if a.Config.DefinitionsDir == "" {
		return nil
	}
	return metadata.LoadDefinitions(a.metadataService, a.Config.DefinitionsDir)
}

func (a *Agent) Start() error {
	go func() {
		if err := a.httpServer.Start(); err != nil {
			_ = a.Shutdown()
			panic(err)
		}
	}()
	return nil
}

func (a *Agent) Shutdown() error {
	logger.Info("shutting down server")
	a.shutdownLock.Lock()
	defer a.shutdownLock.Unlock()
	if a.shutdown {
		return nil
	}
	a.shutdown = true

	shutdown := []func() error{
		a.httpServer.Stop,
		a.flowEngine.Stop,
		func() error {
			analytics.Stop()
			return nil
		},
	}
	for _, fn := range shutdown {
		if err := fn(); err != nil {
			return err
		}
	}
	logger.Info("waiting for all services to shutdown...")
	a.wg.Wait()
	return nil
}
