//
// AgentBench is pleased to support the open source community by making agentbench-grader available.
//
// Copyright (C) 2025 AgentBench.  All rights reserved.
//
// agentbench-grader is licensed under the Apache License Version 2.0.
//
//

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/agentbench/grader/question"
)

type questionEvalParam struct {
	ctx      context.Context
	q        *question.Question
	pipeline *Pipeline
	run      *runState
	wg       *sync.WaitGroup
}

func (p *questionEvalParam) reset() {
	p.ctx = nil
	p.q = nil
	p.pipeline = nil
	p.run = nil
	p.wg = nil
}

var questionEvalParamPool = &sync.Pool{
	New: func() any { return new(questionEvalParam) },
}

func createQuestionEvalPool(size int) (*ants.PoolWithFunc, error) {
	if size <= 0 {
		return nil, errors.New("pool size must be greater than 0")
	}
	pool, err := ants.NewPoolWithFunc(size, func(args any) {
		param, ok := args.(*questionEvalParam)
		if !ok {
			panic("question eval pool args type error")
		}
		wg := param.wg
		defer func() {
			wg.Done()
			param.reset()
			questionEvalParamPool.Put(param)
		}()
		qr := param.pipeline.evaluateQuestion(param.ctx, param.q)
		param.run.record(qr)
	})
	if err != nil {
		return nil, fmt.Errorf("create question eval pool: %w", err)
	}
	return pool, nil
}
