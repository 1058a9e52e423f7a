package workspacesvc

import (
	"context"

	"feedo/internal/api/events"
	"feedo/internal/global"
	"feedo/internal/logger"

	"github.com/sirupsen/logrus"
)

// RegisterDataChangeHooks đăng ký hook ghi audit log cho các collection thuộc phạm vi workspace.
// Gọi một lần khi khởi động app, sau khi logger và registry đã init.
func RegisterDataChangeHooks() {
	events.OnDataChanged(func(ctx context.Context, e events.DataChangeEvent) {
		switch e.CollectionName {
		case global.MongoDB_ColNames.Projects,
			global.MongoDB_ColNames.Versions,
			global.MongoDB_ColNames.Videos,
			global.MongoDB_ColNames.Workspaces:
		default:
			return
		}

		fields := logrus.Fields{
			"collection": e.CollectionName,
			"operation":  e.Operation,
		}
		if wsID := events.GetWorkspaceIDFromDocument(e.Document); !wsID.IsZero() {
			fields["workspace_id"] = wsID.Hex()
		}
		logger.GetAuditLogger().WithFields(fields).Info("Data change")
	})
}
