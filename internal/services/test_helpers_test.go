package services_test

import (
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/skillsync/skillsync-api/internal/services"
	"github.com/skillsync/skillsync-api/pkg/logger"
)

func init() {
	// Initialize logger for tests
	if err := logger.Initialize(logger.Config{
		Level:       "debug",
		Environment: "development",
	}); err != nil {
		panic(err)
	}
}

// newTestAuditService returns an audit service whose repository accepts any
// insert. Audit writes are fire-and-forget, so tests never assert on them.
func newTestAuditService() *services.AuditService {
	repo := new(MockAuditLogRepository)
	repo.On("Insert", mock.Anything, mock.Anything).Return(nil).Maybe()
	return services.NewAuditService(repo)
}

func timeNowPlusMinutes(minutes int) time.Time {
	return time.Now().Add(time.Duration(minutes) * time.Minute)
}
