package server

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"dla/calculator"
	"dla/export"
	"dla/growth"
	"dla/model"
	"dla/seed"
)

// Hub serves one websocket connection: it applies env messages, starts and
// stops runs and pushes their progress.
type Hub struct {
	id       string
	conn     *websocket.Conn
	calcHub  *calculator.CalcHub
	defaults calculator.Config
	// 当前生效的运行参数，只在 handleRequest 中读写
	env model.Env

	// request
	msg chan model.Msg
	// response
	reply chan model.Msg
	// 连接断开时关闭
	done chan struct{}

	logger *log.Entry
}

func NewHub(conn *websocket.Conn, defaults calculator.Config) *Hub {
	id := uuid.NewString()
	return &Hub{
		id:       id,
		conn:     conn,
		calcHub:  calculator.NewCalcHub(),
		defaults: defaults,
		env:      EnvFromConfig(defaults),
		msg:      make(chan model.Msg, 10),
		reply:    make(chan model.Msg, 10),
		done:     make(chan struct{}),
		logger:   log.WithField("session", id),
	}
}

// EnvFromConfig is the env a new session starts with.
func EnvFromConfig(c calculator.Config) model.Env {
	return model.Env{
		GridSize:            c.GridSize,
		Eta:                 c.Eta,
		Omega:               c.Omega,
		GrowthSteps:         c.GrowthSteps,
		DiffusionTolerance:  c.DiffusionTolerance,
		MaxSolverIterations: c.MaxSolverIterations,
		AdaptiveOmega:       c.AdaptiveOmega,
		RngSeed:             c.RngSeed,
		PushEvery:           c.PushEvery,
	}
}

// RunConfig turns an env into a validated run configuration. Without explicit
// seed cells the configured point seed is used.
func RunConfig(env model.Env, defaults calculator.Config) (growth.Config, error) {
	var (
		g   *model.Grid
		err error
	)
	if len(env.Seed) > 0 {
		g, err = seed.Cells(env.GridSize, env.Seed)
	} else {
		g, err = seed.Point(env.GridSize, defaults.SeedRow, defaults.SeedCol)
	}
	if err != nil {
		return growth.Config{}, err
	}
	cfg := growth.Config{
		GridSize:            env.GridSize,
		Eta:                 env.Eta,
		Omega:               env.Omega,
		GrowthSteps:         env.GrowthSteps,
		DiffusionTolerance:  env.DiffusionTolerance,
		MaxSolverIterations: env.MaxSolverIterations,
		AdaptiveOmega:       env.AdaptiveOmega,
		OmegaStep:           defaults.OmegaStep,
		RngSeed:             env.RngSeed,
		Seed:                g,
		// 推送只需要最近一步
		HistoryLimit: 1,
	}
	return cfg, cfg.Validate()
}

func (h *Hub) handleResponse() {
	for {
		select {
		case reply := <-h.reply:
			if err := h.conn.WriteJSON(&reply); err != nil {
				h.logger.WithError(err).Warn("write failed")
			}
		case <-h.done:
			return
		}
	}
}

func (h *Hub) handleRequest() {
	for {
		select {
		case msg := <-h.msg:
			h.dispatch(msg)
		case <-h.done:
			h.calcHub.StopSignal()
			return
		}
	}
}

func (h *Hub) dispatch(msg model.Msg) {
	switch msg.Type {
	case model.MsgEnv:
		h.setEnv(msg.Content)
	case model.MsgStart:
		h.start()
	case model.MsgStop:
		if !h.calcHub.StopSignal() {
			h.send(model.Msg{Type: model.MsgStopped, Content: "not running"})
		}
	default:
		h.sendError(fmt.Errorf("no such type %q", msg.Type))
	}
}

// setEnv 只覆盖消息中出现的字段
func (h *Hub) setEnv(content string) {
	env := h.env
	env.Seed = nil
	if err := json.Unmarshal([]byte(content), &env); err != nil {
		h.sendError(fmt.Errorf("bad env: %w", err))
		return
	}
	if env.PushEvery <= 0 {
		env.PushEvery = 1
	}
	if _, err := RunConfig(env, h.defaults); err != nil {
		h.sendError(err)
		return
	}
	h.env = env
	h.logger.WithFields(log.Fields{
		"grid_size": env.GridSize,
		"eta":       env.Eta,
		"omega":     env.Omega,
		"steps":     env.GrowthSteps,
	}).Info("env set")
	h.send(model.Msg{Type: model.MsgEnvSet, Content: "env is set"})
}

func (h *Hub) start() {
	cfg, err := RunConfig(h.env, h.defaults)
	if err != nil {
		h.sendError(err)
		return
	}
	stop, ok := h.calcHub.StartSignal()
	if !ok {
		h.sendError(fmt.Errorf("a run is already in progress"))
		return
	}
	runID := uuid.NewString()
	h.send(model.Msg{Type: model.MsgStarted, Content: runID})
	go h.run(runID, cfg, h.env.PushEvery, stop)
}

func (h *Hub) run(runID string, cfg growth.Config, pushEvery int, stop <-chan struct{}) {
	activeRuns.Inc()
	defer activeRuns.Dec()
	logger := h.logger.WithField("run", runID)

	d, err := growth.NewDriver(cfg, nil)
	if err != nil {
		h.calcHub.Finished()
		h.sendError(err)
		return
	}
	logger.Info("run started")
	for d.Status() == growth.StatusRunning {
		select {
		case <-stop:
			runsTotal.WithLabelValues("stopped").Inc()
			h.calcHub.Finished()
			logger.WithField("steps", d.History().Steps).Info("run stopped")
			h.send(model.Msg{Type: model.MsgStopped, Content: runID})
			return
		case <-h.done:
			h.calcHub.Finished()
			return
		default:
		}

		snap, err := d.Step()
		if err != nil {
			break
		}
		growthStepsTotal.Inc()
		solverSweeps.Observe(float64(snap.SolverIterations))
		omegaReductionsTotal.Add(float64(snap.Reductions))
		if snap.Step%pushEvery == 0 || d.Status() != growth.StatusRunning {
			h.sendStep(runID, snap)
		}
	}

	hist := d.History()
	runsTotal.WithLabelValues(hist.Status.String()).Inc()
	h.calcHub.Finished()

	data := model.DonePushData{
		RunID:                 runID,
		Status:                hist.Status.String(),
		Steps:                 hist.Steps,
		TotalSolverIterations: hist.TotalSolverIterations,
		Cells:                 hist.Aggregate.Count(),
	}
	if hist.Err != nil {
		data.Error = hist.Err.Error()
	}
	h.sendJSON(model.MsgDone, data)
}

func (h *Hub) sendStep(runID string, snap growth.Snapshot) {
	h.sendJSON(model.MsgStep, model.StepPushData{
		RunID:      runID,
		Step:       snap.Step,
		Cell:       snap.Cell,
		Iterations: snap.SolverIterations,
		Omega:      snap.Omega,
		Aggregate:  export.Cells(snap.Aggregate),
		Field:      Encode(snap.Field, DefaultLevels),
	})
}

func (h *Hub) sendJSON(typ string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		h.sendError(err)
		return
	}
	h.send(model.Msg{Type: typ, Content: string(data)})
}

func (h *Hub) sendError(err error) {
	h.logger.WithError(err).Warn("request rejected")
	h.send(model.Msg{Type: model.MsgError, Content: err.Error()})
}

func (h *Hub) send(msg model.Msg) {
	select {
	case h.reply <- msg:
	case <-h.done:
	}
}
