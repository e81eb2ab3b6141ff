package main

import (
	"fmt"

	"github.com/loandesk/loandesk/pkg/config"
	"github.com/loandesk/loandesk/pkg/db"
	"github.com/loandesk/loandesk/pkg/server"
	"github.com/loandesk/loandesk/pkg/server/store/gorm"
	"github.com/loandesk/loandesk/pkg/server/store/memory"
)

const (
	storePostgres = "postgres"
	storeMemory   = "memory"
)

func openStores(kind string) (server.Stores, error) {
	switch kind {
	case storeMemory:
		mem := memory.NewStore()
		return server.Stores{Identities: mem, Loans: mem, Health: mem}, nil
	case storePostgres, "":
		conn, err := db.Connect(db.Config{LogLevel: config.Get().LogLevel})
		if err != nil {
			return server.Stores{}, err
		}
		return server.Stores{
			Identities: gorm.NewIdentitiesStore(conn),
			Loans:      gorm.NewLoansStore(conn),
			Health:     gorm.NewHealthStore(conn),
		}, nil
	default:
		return server.Stores{}, fmt.Errorf("unknown store %q (expected %s or %s)", kind, storePostgres, storeMemory)
	}
}
