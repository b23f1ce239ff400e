package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"workshop-console/backend/internal/config"
	"workshop-console/backend/internal/logging"
	"workshop-console/backend/internal/services"
	"workshop-console/backend/internal/store"
	"workshop-console/backend/internal/workflow"
	"workshop-console/backend/pkg/models"
)

var configFile string

func main() {
	root := &cobra.Command{
		Use:   "seed",
		Short: "Seed reference data and a demo order into the document store",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
	}
	root.Flags().StringVar(&configFile, "config", "", "Path to config file")

	if err := root.Execute(); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}

func run(ctx context.Context) error {
	logger := logging.NewLogger()
	defer logger.Sync()

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Store.Backend != "postgres" {
		return fmt.Errorf("seeding requires store.backend=postgres, got %q", cfg.Store.Backend)
	}

	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.DB.Host, cfg.DB.Port, cfg.DB.User, cfg.DB.Password, cfg.DB.Name, cfg.DB.SSLMode,
	)
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	docStore := store.NewPostgresStore(pool)
	if err := docStore.EnsureSchema(ctx); err != nil {
		return err
	}

	if err := seedReferenceData(ctx, docStore, logger); err != nil {
		return err
	}
	if err := seedDemoOrder(ctx, docStore, logger); err != nil {
		return err
	}

	logger.Info("Seeding complete")
	return nil
}

func seedReferenceData(ctx context.Context, docStore store.Store, logger *logging.Logger) error {
	departments := map[string]models.Department{
		"carpentry": {Name: "Carpentry"},
		"finishing": {Name: "Finishing"},
		"assembly":  {Name: "Assembly"},
		"qc":        {Name: "Quality Control"},
	}
	templates := map[string]models.WorkflowTemplate{
		"wf_cutting":  {Name: "Cutting", DepartmentCode: "carpentry"},
		"wf_joinery":  {Name: "Joinery", DepartmentCode: "carpentry"},
		"wf_sanding":  {Name: "Sanding", DepartmentCode: "finishing"},
		"wf_lacquer":  {Name: "Lacquering", DepartmentCode: "finishing"},
		"wf_assembly": {Name: "Final Assembly", DepartmentCode: "assembly"},
		"wf_final_qc": {Name: "Final Inspection", DepartmentCode: "qc"},
	}
	members := map[string]models.Member{
		"m_binh": {Name: "Binh Tran", Role: models.MemberRoleWorker, DepartmentCodes: []string{"carpentry"}, IsActive: true},
		"m_chi":  {Name: "Chi Nguyen", Role: models.MemberRoleWorker, DepartmentCodes: []string{"finishing"}, IsActive: true},
		"m_dung": {Name: "Dung Le", Role: models.MemberRoleWorker, DepartmentCodes: []string{"assembly", "qc"}, IsActive: true},
		"m_hoa":  {Name: "Hoa Pham", Role: models.MemberRoleManager, DepartmentCodes: []string{"qc"}, IsActive: true},
	}

	updates := make(map[string]any)
	for code, d := range departments {
		updates[store.Join(store.DepartmentsRoot, code)] = d
	}
	for id, t := range templates {
		updates[store.Join(store.TemplatesRoot, id)] = t
	}
	for id, m := range members {
		updates[store.MemberPath(id)] = m
	}
	if err := docStore.Update(ctx, updates); err != nil {
		return fmt.Errorf("seed reference data: %w", err)
	}
	logger.Info("Seeded reference data",
		"departments", len(departments), "templates", len(templates), "members", len(members))
	return nil
}

func seedDemoOrder(ctx context.Context, docStore store.Store, logger *logging.Logger) error {
	existing, err := docStore.Get(ctx, store.OrdersRoot)
	if err != nil {
		return fmt.Errorf("check existing orders: %w", err)
	}
	if existing != nil {
		logger.Info("Orders already present, skipping demo order")
		return nil
	}

	cat, err := services.LoadCatalog(ctx, docStore)
	if err != nil {
		return err
	}

	now := time.Now().UnixMilli()
	orderID := uuid.New().String()
	order := models.Unit{
		ID:           orderID,
		Kind:         models.UnitKindOrder,
		Code:         "ORD-0001",
		CustomerName: "Demo Customer",
		Phone:        "0900000000",
		Status:       models.StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
		Products: map[string]models.Product{
			"p_table": {
				Name:     "Dining table",
				Quantity: 1,
				Images:   []string{"https://example.invalid/table.jpg"},
				Stages: map[string]models.Stage{
					"s_cut": {
						DepartmentCode: "carpentry",
						TemplateIDs:    []string{"wf_cutting"},
						AssigneeIDs:    []string{"m_binh"},
						UpdatedAt:      now,
					},
					"s_finish": {
						DepartmentCode: "finishing",
						TemplateIDs:    []string{"wf_lacquer"},
						AssigneeIDs:    []string{"m_chi"},
						UpdatedAt:      now,
					},
				},
			},
		},
	}

	for stageID, stage := range order.Products["p_table"].Stages {
		if err := workflow.ValidateStage(stage, cat); err != nil {
			return fmt.Errorf("demo stage %s: %w", stageID, err)
		}
		order.Products["p_table"].Stages[stageID] = workflow.ResolveTemplateNames(stage, cat)
	}

	if err := docStore.Set(ctx, store.UnitPath(models.UnitKindOrder, orderID), order); err != nil {
		return fmt.Errorf("seed demo order: %w", err)
	}
	logger.Info("Seeded demo order", "id", orderID, "code", order.Code)
	return nil
}
