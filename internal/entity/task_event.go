package entity

import "time"

type TaskAction string

const (
	ActionCreate TaskAction = "created"
	ActionUpdate TaskAction = "updated"
	ActionDelete TaskAction = "deleted"
	ActionToggle TaskAction = "toggled"
)

// TaskEvent публикуется в брокер после каждой успешной мутации
type TaskEvent struct {
	Action    TaskAction `json:"action"`
	OwnerID   string     `json:"owner_id"`
	TaskID    string     `json:"task_id"`
	Task      *Task      `json:"task,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}
