package workflow

import (
	"errors"

	"photonym/internal/queue"
	"photonym/internal/stage"
)

// StageSet bundles the concrete pipeline handlers the manager orchestrates.
type StageSet struct {
	Extractor stage.Handler
	Resolver  stage.Handler
	Describer stage.Handler
	Namer     stage.Handler
}

type pipelineStage struct {
	name    string
	handler stage.Handler
	// start is the status that selects this stage; done is the default
	// next status when the handler does not set one itself.
	start queue.Status
	done  queue.Status
}

func buildPipeline(set StageSet) ([]pipelineStage, error) {
	stages := []pipelineStage{
		{name: "extracting tags", handler: set.Extractor, start: queue.StatusExtractingTags, done: queue.StatusDetectingPeople},
		{name: "detecting people", handler: set.Resolver, start: queue.StatusDetectingPeople, done: queue.StatusDescribingScene},
		{name: "describing scene", handler: set.Describer, start: queue.StatusDescribingScene, done: queue.StatusAssemblingName},
		{name: "assembling name", handler: set.Namer, start: queue.StatusAssemblingName, done: queue.StatusCompleted},
	}
	for _, stg := range stages {
		if stg.handler == nil {
			return nil, errors.New("workflow stage missing handler: " + stg.name)
		}
	}
	return stages, nil
}
