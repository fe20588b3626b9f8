package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/airotrack/fieldops/internal/service"
	servicePostgres "github.com/airotrack/fieldops/internal/service/postgres"
	"github.com/airotrack/fieldops/internal/user"
	userPostgres "github.com/airotrack/fieldops/internal/user/postgres"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		gormDB, err := openGorm(db)
		if err != nil {
			log.Fatalf("failed to open gorm connection: %v", err)
		}

		ctx := context.Background()

		if clearData {
			for _, table := range []string{"notifications", "reimbursements", "services", "trackers", "app_sessions", "users"} {
				if err := gormDB.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		users := userPostgres.NewUserRepository(gormDB)
		existing, err := users.All(ctx)
		if err != nil {
			log.Fatalf("failed to list users: %v", err)
		}
		existingIDs := make(map[string]bool, len(existing))
		for _, u := range existing {
			existingIDs[u.ID] = true
		}

		for _, u := range defaultUsers() {
			if existingIDs[u.ID] {
				continue
			}
			if err := users.Insert(ctx, u); err != nil {
				log.Fatalf("failed to seed user %s: %v", u.Name, err)
			}
			fmt.Println("Seeded user:", u.Name)
		}

		services := servicePostgres.NewServiceRepository(gormDB)
		seeded, err := services.All(ctx)
		if err != nil {
			log.Fatalf("failed to list services: %v", err)
		}
		if len(seeded) == 0 {
			for _, s := range defaultServices() {
				if err := services.Insert(ctx, s); err != nil {
					log.Fatalf("failed to seed service %s: %v", s.CustomerName, err)
				}
			}
			fmt.Printf("Seeded %d sample services\n", len(defaultServices()))
		}
	},
}

// defaultUsers is the built-in roster, including the reserved ADM
// account that never appears in notifications and cannot be suspended.
func defaultUsers() []*user.User {
	return []*user.User{
		{ID: "master_main", Name: "ADM", Phone: "00000000000", Password: "29031992", Role: user.RoleMaster, IsActive: true},
		{ID: "1", Name: "Alex Master", Phone: "21999999999", Password: "123", Role: user.RoleMaster, IsActive: true},
		{ID: "2", Name: "Mariana Admin", Phone: "21988888888", Password: "123", Role: user.RoleAdmin, IsActive: true},
		{ID: "3", Name: "José Técnico", Phone: "21977777777", Password: "123", Role: user.RoleTechnician, IsActive: true},
		{ID: "4", Name: "Lucas Silva", Phone: "21966666666", Password: "123", Role: user.RoleTechnician, IsActive: true},
	}
}

func defaultServices() []*service.Service {
	return []*service.Service{
		{
			ID: "s1", Date: "2024-01-08", CustomerName: "ALBERTO MAIA ALVES", Neighborhood: "ITAGUAÍ",
			Type: service.TypeInstall, Company: service.CompanyAiroclube, Vehicle: "FORD ECOSPORT", Plate: "LUY2565",
			Value: 50, Status: service.StatusCompleted, TechnicianID: "3", TechnicianName: "José Técnico",
		},
		{
			ID: "s2", Date: "2024-01-08", CustomerName: "ANNA CLARA ELEUTERIO MESQUITA", Neighborhood: "CAMPO GRANDE",
			Type: service.TypeMaintenance, Company: service.CompanyAiroclube, Vehicle: "HONDA CITY", Plate: "LPV4I99",
			Value: 50, Status: service.StatusCompleted, TechnicianID: "3", TechnicianName: "José Técnico",
		},
		{
			ID: "s3", Date: "2024-01-07", CustomerName: "LUCAS DE ARAUJO FERNANDES", Neighborhood: "CAMPO GRANDE",
			Type: service.TypeInstall, Company: service.CompanyAirotracker, Vehicle: "VOLVO NL10", Plate: "KQI4J50",
			Value: 50, Status: service.StatusCompleted, TechnicianID: "4", TechnicianName: "Lucas Silva",
		},
		{
			ID: "s4", Date: "2024-01-07", CustomerName: "MARIA DA PENHA", Neighborhood: "GUARATIBA",
			Type: service.TypeRemoval, Company: service.CompanyAirotracker, Vehicle: "FIAT PALIO", Plate: "KXP4589",
			Value: 50, Status: service.StatusCancelled, TechnicianID: "4", TechnicianName: "Lucas Silva",
			CancellationReason: "Cliente não estava no local", CancelledBy: service.CancelledByTechnician,
		},
	}
}
