package qa

import (
	"context"
	"log"
	"os"
	"testing"

	"gorm.io/gorm"

	"github.com/stackit-dev/stackit/backend/internal/notify"
	"github.com/stackit-dev/stackit/backend/internal/testutil"
)

var (
	testDB       *gorm.DB
	testService  *Service
	testNotifier *notify.Dispatcher
)

func TestMain(m *testing.M) {
	ctx := context.Background()

	container, db, err := testutil.Start(ctx)
	if err != nil {
		log.Fatalf("test database: %v", err)
	}

	testDB = db
	testNotifier = notify.NewDispatcher(db)
	testService = New(db, testNotifier)

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}
