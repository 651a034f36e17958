package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/frahmantamala/gearguard/internal/app"
	"github.com/frahmantamala/gearguard/internal/core/common/datetime"
	userDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/user"
	"github.com/frahmantamala/gearguard/internal/department"
	"github.com/frahmantamala/gearguard/internal/equipment"
	"github.com/frahmantamala/gearguard/internal/maintenance"
	"github.com/frahmantamala/gearguard/internal/team"
	"github.com/frahmantamala/gearguard/internal/user"
	"github.com/frahmantamala/gearguard/pkg/logger"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const seedPassword = "password"

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(configDir)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		container, err := app.New(cfg, db, logger.L())
		if err != nil {
			log.Fatalf("failed to wire services: %v", err)
		}

		ctx := context.Background()
		if clearData {
			if err := clearTables(db); err != nil {
				log.Fatalf("failed to clear data: %v", err)
			}
			fmt.Println("Cleared existing data")
		}

		if err := seedDemoData(ctx, container); err != nil {
			log.Fatalf("failed to seed: %v", err)
		}
		_ = container.Bus.Wait(ctx)
	},
}

// clearTables empties every table, children first.
func clearTables(db *gorm.DB) error {
	for _, table := range []string{"maintenance_requests", "equipment", "team_members", "maintenance_teams", "users", "departments"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

// seedDemoData goes through the services so seeded rows obey the same
// validation and reference checks as API traffic. It is a no-op when users exist.
func seedDemoData(ctx context.Context, c *app.Container) error {
	var existing int64
	if err := c.DB.WithContext(ctx).Model(&userDatamodel.User{}).Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		fmt.Println("users already exist; skipping seed (use --clear to reseed)")
		return nil
	}

	dept, err := c.Departments.Create(ctx, department.CreateDepartmentDTO{
		Name:        "Production",
		Description: "Shop floor and assembly lines",
	})
	if err != nil {
		return fmt.Errorf("seed department: %w", err)
	}
	fmt.Println("Seeded department:", dept.Name)

	seeded := map[user.Role]*user.User{}
	for _, u := range []user.CreateUserDTO{
		{Name: "Grace Admin", Email: "admin@gearguard.com", Role: string(user.RoleAdmin)},
		{Name: "Marco Manager", Email: "manager@gearguard.com", Role: string(user.RoleManager)},
		{Name: "Tariq Technician", Email: "technician@gearguard.com", Role: string(user.RoleTechnician)},
		{Name: "Erin Employee", Email: "employee@gearguard.com", Role: string(user.RoleEmployee)},
	} {
		u.Password = seedPassword
		u.DepartmentID = &dept.ID
		created, err := c.Users.Create(ctx, u)
		if err != nil {
			return fmt.Errorf("seed user %s: %w", u.Email, err)
		}
		seeded[created.Role] = created
		fmt.Println("Seeded user:", created.Email)
	}

	mechanics, err := c.Teams.Create(ctx, team.CreateTeamDTO{
		Name:        "Mechanics",
		Description: "Presses, lathes and conveyors",
		MemberIDs:   []int64{seeded[user.RoleTechnician].ID},
	})
	if err != nil {
		return fmt.Errorf("seed team: %w", err)
	}
	fmt.Println("Seeded team:", mechanics.Name)

	purchase, _ := datetime.Parse("2022-03-01")
	warranty, _ := datetime.Parse("2025-03-01")
	employeeID := seeded[user.RoleEmployee].ID
	lathe, err := c.Equipment.Create(ctx, equipment.CreateEquipmentDTO{
		Name:               "CNC Lathe",
		SerialNumber:       "CNC-0001",
		Category:           "Machining",
		Location:           "Hall B",
		PurchaseDate:       datetime.NewDate(purchase),
		WarrantyExpiry:     datetime.NewDate(warranty),
		DepartmentID:       dept.ID,
		MaintenanceTeamID:  mechanics.ID,
		AssignedEmployeeID: &employeeID,
	})
	if err != nil {
		return fmt.Errorf("seed equipment: %w", err)
	}
	fmt.Println("Seeded equipment:", lathe.Name)

	req, err := c.Requests.CreateRequest(ctx, maintenance.CreateRequestDTO{
		Subject:     "Spindle vibration",
		Description: "Vibration above 2000 rpm",
		Type:        string(maintenance.TypeCorrective),
		Priority:    string(maintenance.PriorityHigh),
		EquipmentID: lathe.ID,
	}, employeeID)
	if err != nil {
		return fmt.Errorf("seed request: %w", err)
	}
	fmt.Println("Seeded maintenance request:", req.Subject)
	return nil
}
