package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"kidsflow/internal/config"
	"kidsflow/internal/domain"
	"kidsflow/internal/upstream"
	"kidsflow/internal/workflow"
)

type Scenario struct {
	Name       string
	Progress   domain.ProgressBySection
	NextRoute  string
	WantRoute  string
	Accessible [4]bool
}

// Sin variables de entorno corre los escenarios incluidos.
// WORKFLOW_SNAPSHOT=<archivo.json> imprime la tabla para un snapshot guardado.
// WORKFLOW_TOKEN=<jwt> consulta el backend en vivo (UPSTREAM_BASE_URL).
func main() {
	_ = godotenv.Load()

	if path := os.Getenv("WORKFLOW_SNAPSHOT"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			log.Fatalf("read snapshot: %v", err)
		}
		var state domain.WorkflowState
		if err := json.Unmarshal(raw, &state); err != nil {
			log.Fatalf("parse snapshot: %v", err)
		}
		printTable(state)
		return
	}

	if token := os.Getenv("WORKFLOW_TOKEN"); token != "" {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		client := upstream.NewClient(cfg.UpstreamBaseURL, cfg.UpstreamTimeout(), nil)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		state, err := client.GetWorkflowState(ctx, token)
		if err != nil {
			fmt.Println("workflow state unavailable, all steps locked:", err)
			for _, v := range workflow.Locked() {
				fmt.Printf("  %d %-14s %-22s accessible=false\n", v.Step, v.Label, v.Route)
			}
			os.Exit(1)
		}
		printTable(state)
		return
	}

	runScenarios()
}

func printTable(state domain.WorkflowState) {
	p := state.ProgressBySection
	decided := workflow.Decide(p)
	fmt.Printf("next_route=%q decided=%q state=%s valid=%t sequential=%t\n",
		state.NextRoute, decided, workflow.Classify(p), p.Valid(), p.Sequential())
	if state.NextRoute != "" && workflow.StepFromRoute(state.NextRoute) != workflow.StepFromRoute(decided) {
		fmt.Println("WARNING: server route differs from local decision")
	}
	for _, v := range workflow.Steps(state) {
		marker := " "
		if v.Current {
			marker = ">"
		}
		fmt.Printf("%s %d %-14s %-22s completed=%-5t accessible=%t\n", marker, v.Step, v.Label, v.Route, v.Completed, v.Accessible)
	}
}

func runScenarios() {
	scenarios := []Scenario{
		{
			Name:       "Sin perfil",
			Progress:   domain.ProgressBySection{ModerationTotal: 12},
			WantRoute:  workflow.RouteChildProfile,
			Accessible: [4]bool{true, false, false, false},
		},
		{
			Name:       "Moderación en curso",
			Progress:   domain.ProgressBySection{HasChildProfile: true, ModerationCompletedCount: 5, ModerationTotal: 12},
			WantRoute:  workflow.RouteModeration,
			Accessible: [4]bool{true, true, false, false},
		},
		{
			Name:       "Encuesta pendiente",
			Progress:   domain.ProgressBySection{HasChildProfile: true, ModerationCompletedCount: 12, ModerationTotal: 12},
			WantRoute:  workflow.RouteExitSurvey,
			Accessible: [4]bool{true, true, true, false},
		},
		{
			Name:       "Completado",
			Progress:   domain.ProgressBySection{HasChildProfile: true, ModerationCompletedCount: 12, ModerationTotal: 12, ExitSurveyCompleted: true},
			WantRoute:  workflow.RouteCompletion,
			Accessible: [4]bool{true, true, true, true},
		},
		{
			Name:       "Sin escenarios asignados",
			Progress:   domain.ProgressBySection{HasChildProfile: true},
			WantRoute:  workflow.RouteExitSurvey,
			Accessible: [4]bool{true, true, true, false},
		},
	}

	passed := 0
	for _, sc := range scenarios {
		state := domain.WorkflowState{NextRoute: sc.NextRoute, ProgressBySection: sc.Progress}
		if state.NextRoute == "" {
			state.NextRoute = workflow.Decide(sc.Progress)
		}

		ok := state.NextRoute == sc.WantRoute
		var got [4]bool
		for i, step := range workflow.AllSteps() {
			got[i] = workflow.CanAccessStep(step, state)
		}
		ok = ok && got == sc.Accessible

		if ok {
			fmt.Printf("PASS [%s] route=%s accessible=%v\n", sc.Name, state.NextRoute, got)
			passed++
		} else {
			fmt.Printf("FAIL [%s] route=%s want=%s accessible=%v want=%v\n", sc.Name, state.NextRoute, sc.WantRoute, got, sc.Accessible)
		}
	}

	fmt.Printf("Scenarios: %d/%d passed\n", passed, len(scenarios))
	if passed != len(scenarios) {
		os.Exit(1)
	}
}
