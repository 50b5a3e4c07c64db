package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal"
	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/employee"
	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/pkg/logger"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start background workers",
	Long:  `Start and manage background workers such as the payroll scheduler.`,
}

// Payroll worker command
var payrollWorkerCmd = &cobra.Command{
	Use:   "payroll",
	Short: "Start the payroll scheduler",
	Long:  `Periodically opens the current month's payment attempt for every active employee.`,
	Run: func(cmd *cobra.Command, args []string) {
		startPayrollWorker()
	},
}

var tickInterval time.Duration

func startPayrollWorker() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	lg := logger.L()

	interval := deps.Config.Payroll.TickInterval
	if tickInterval > 0 {
		interval = tickInterval
	}
	if interval <= 0 {
		interval = time.Hour
	}

	lg.Info("payroll worker starting",
		"tick_interval", interval,
		"due_day", deps.Config.Payroll.DueDay)

	svc := deps.EmployeeService

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	runPayrollTick(svc, deps.Config.Payroll.DueDay, lg)

	for {
		select {
		case <-ticker.C:
			runPayrollTick(svc, deps.Config.Payroll.DueDay, lg)
		case sig := <-sigChan:
			lg.Info("received signal, shutting down payroll worker", "signal", sig)
			return
		}
	}
}

// runPayrollTick opens this month's payment attempt for every active
// employee. Attempts that already exist surface as conflicts and are
// skipped; that is what makes the tick safe to repeat.
func runPayrollTick(svc *employee.Service, dueDay int, lg *slog.Logger) {
	now := time.Now().UTC()
	periodStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	dueDate := time.Date(now.Year(), now.Month(), dueDay, 0, 0, 0, 0, time.UTC)

	opened, skipped := 0, 0
	offset := 0
	const pageSize = 100

	for {
		records, err := svc.ListEmployees(false, pageSize, offset)
		if err != nil {
			lg.Error("payroll tick: failed to list employees", "error", err)
			return
		}
		if len(records) == 0 {
			break
		}

		for _, rec := range records {
			if rec.Status != employee.StatusActive {
				continue
			}

			_, err := svc.OpenPeriod(rec.ID, periodStart, rec.Salary, rec.Currency, dueDate)
			if err != nil {
				if appErr, ok := internal.IsAppError(err); ok && appErr.Type == internal.ErrorTypeConflict {
					skipped++
					continue
				}
				lg.Error("payroll tick: failed to open period",
					"error", err,
					"employee_id", rec.ID,
					"period_start", periodStart.Format("2006-01-02"))
				continue
			}
			opened++
		}

		if len(records) < pageSize {
			break
		}
		offset += pageSize
	}

	lg.Info("payroll tick complete",
		"period_start", periodStart.Format("2006-01-02"),
		"opened", opened,
		"already_open", skipped)
}

func init() {
	payrollWorkerCmd.Flags().DurationVar(&tickInterval, "tick-interval", 0, "How often to run the payroll tick (overrides config)")

	workerCmd.AddCommand(payrollWorkerCmd)

	rootCmd.AddCommand(workerCmd)
}
