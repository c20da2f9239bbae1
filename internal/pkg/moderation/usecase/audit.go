package usecase

import "log"

// AuditLog routes one-line audit entries to the group's configured log chat.
// A group without a mapping stays silent.
type AuditLog struct {
	platform Platform
	settings Settings
}

func NewAuditLog(platform Platform, settings Settings) *AuditLog {
	return &AuditLog{platform: platform, settings: settings}
}

func (a *AuditLog) Log(groupID, line string) {
	snapshot := a.settings.Get()
	if snapshot == nil {
		return
	}
	logChat := snapshot.LogChatFor(groupID)
	if logChat == "" {
		return
	}
	if _, err := a.platform.Send(logChat, line, nil); err != nil {
		log.Printf("Error sending audit line to %s: %v", logChat, err)
	}
}
