// Package datamodel lists the gorm row models in dependency order for AutoMigrate.
package datamodel

import (
	"fmt"

	"github.com/frahmantamala/gearguard/internal/core/datamodel/department"
	"github.com/frahmantamala/gearguard/internal/core/datamodel/equipment"
	"github.com/frahmantamala/gearguard/internal/core/datamodel/request"
	"github.com/frahmantamala/gearguard/internal/core/datamodel/team"
	"github.com/frahmantamala/gearguard/internal/core/datamodel/user"
	"gorm.io/gorm"
)

func All() []interface{} {
	return []interface{}{
		&department.Department{},
		&user.User{},
		&team.MaintenanceTeam{},
		&equipment.Equipment{},
		&request.MaintenanceRequest{},
	}
}

// Migrate registers the team_members join model and auto-migrates every table.
// Used for sqlite development databases and tests; postgres goes through goose.
func Migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&team.MaintenanceTeam{}, "Members", &team.TeamMember{}); err != nil {
		return fmt.Errorf("setup team_members join table: %w", err)
	}
	if err := db.AutoMigrate(All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
