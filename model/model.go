package model

// 前端请求的运行参数
type Env struct {
	GridSize            int     `json:"grid_size"`
	Eta                 float64 `json:"eta"`
	Omega               float64 `json:"omega"`
	GrowthSteps         int     `json:"growth_steps"`
	DiffusionTolerance  float64 `json:"diffusion_tolerance"`
	MaxSolverIterations int     `json:"max_solver_iterations"`
	AdaptiveOmega       bool    `json:"adaptive_omega"`
	RngSeed             uint64  `json:"rng_seed"`
	Seed                []Cell  `json:"seed"`
	PushEvery           int     `json:"push_every"`
}

// 前后端通信消息结构
type Msg struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// 消息类型
const (
	MsgEnv     = "env"
	MsgStart   = "start"
	MsgStop    = "stop"
	MsgEnvSet  = "envSet"
	MsgStarted = "started"
	MsgStep    = "step"
	MsgDone    = "done"
	MsgStopped = "stopped"
	MsgError   = "error"
)

// 单步推送数据
type StepPushData struct {
	RunID      string   `json:"run_id"`
	Step       int      `json:"step"`
	Cell       Cell     `json:"cell"`
	Iterations int      `json:"iterations"`
	Omega      float64  `json:"omega"`
	Aggregate  []Cell   `json:"aggregate"`
	Field      Encoding `json:"field"`
}

// 运行结束推送数据
type DonePushData struct {
	RunID                 string `json:"run_id"`
	Status                string `json:"status"`
	Steps                 int    `json:"steps"`
	TotalSolverIterations int    `json:"total_solver_iterations"`
	Cells                 int    `json:"cells"`
	Error                 string `json:"error,omitempty"`
}

// 浓度场压缩格式：Start 为首个量化值，Data 为相邻量化值之差
type Encoding struct {
	N      int    `json:"n"`
	Levels int    `json:"levels"`
	Start  int    `json:"start"`
	Data   []int8 `json:"data"`
}
