package domain

import "strings"

const (
	SystemEntity = "system"
	SetupEntity  = "setup"

	TopicSystemConnected = SystemEntity + ".connected"
	TopicSystemPong      = SystemEntity + ".pong"
	TopicSystemError     = SystemEntity + ".error"

	ActionConnected = "connected"
	ActionPong      = "pong"
	ActionError     = "error"
)

// SetupActions are the reconciliation outcomes a setup run reports.
var SetupActions = []string{"created", "skipped", "found", "failed", "completed"}

// SetupTopics lists every topic the setup feed broadcasts on.
func SetupTopics() []string {
	topics := make([]string, 0, len(SetupActions))
	for _, action := range SetupActions {
		topics = append(topics, CustomTopic(SetupEntity, action))
	}
	return topics
}

// CustomTopic returns the canonical topic for the given entity and action.
func CustomTopic(entity, action string) string {
	cleanEntity := strings.TrimSpace(entity)
	cleanAction := strings.TrimSpace(action)
	if cleanEntity == "" || cleanAction == "" {
		return ""
	}
	return cleanEntity + "." + cleanAction
}
