// Command demodata seeds a demo store with three months of plausible
// household transactions so the reports have something to show.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/blackeyes972/budget-familiare/internal/catalog"
	"github.com/blackeyes972/budget-familiare/internal/config"
	"github.com/blackeyes972/budget-familiare/internal/database"
	"github.com/blackeyes972/budget-familiare/internal/models"
	"github.com/blackeyes972/budget-familiare/internal/registry"
)

type sample struct {
	description string
	amount      float64
	txType      string
	category    string
}

// samples are spread over the last 90 days with a ±10% amount jitter.
var samples = []sample{
	{"Monthly salary", 2800, models.TypeIncome, "Salary"},
	{"Freelance project", 650, models.TypeIncome, "Freelance"},
	{"Dividend payout", 120, models.TypeIncome, "Investments"},
	{"Quarterly bonus", 400, models.TypeIncome, "Bonus"},
	{"Online order refund", 45, models.TypeIncome, "Refunds"},
	{"Second-hand sale", 80, models.TypeIncome, "Other Income"},
	{"Monthly salary", 2800, models.TypeIncome, "Salary"},
	{"Freelance retainer", 500, models.TypeIncome, "Freelance"},
	{"Interest credit", 15, models.TypeIncome, "Investments"},
	{"Expense reimbursement", 95, models.TypeIncome, "Refunds"},

	{"Rent", 950, models.TypeExpense, "Housing"},
	{"Weekly groceries", 120, models.TypeExpense, "Groceries"},
	{"Electricity bill", 85, models.TypeExpense, "Utilities"},
	{"Fuel", 60, models.TypeExpense, "Transport"},
	{"Pharmacy", 35, models.TypeExpense, "Health"},
	{"Online course", 49, models.TypeExpense, "Education"},
	{"Dinner out", 70, models.TypeExpense, "Leisure"},
	{"Winter jacket", 110, models.TypeExpense, "Clothing"},
	{"Phone plan", 25, models.TypeExpense, "Technology"},
	{"Birthday present", 55, models.TypeExpense, "Gifts"},
}

func main() {
	var (
		configPath = flag.String("config", "config.yaml", "configuration file")
		profile    = flag.String("profile", "Demo", "profile name to register and fill")
		dbName     = flag.String("db", "budget_demo", "sqlite database name")
		yes        = flag.Bool("yes", false, "skip the confirmation prompt")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := os.MkdirAll(cfg.Dirs.Data, 0o755); err != nil {
		log.Fatalf("create data dir: %v", err)
	}
	if err := os.MkdirAll(cfg.Dirs.Config, 0o755); err != nil {
		log.Fatalf("create config dir: %v", err)
	}

	fmt.Printf("This writes %d demo transactions into sqlite store %q (profile %q).\n",
		len(samples), *dbName, *profile)
	if !*yes && !confirm("Continue? [y/N] ") {
		fmt.Println("aborted")
		return
	}

	reg := registry.New(cfg.RegistryPath())
	params := database.Params{DBName: *dbName}
	if err := reg.Add(*profile, database.TypeSQLite, params); err != nil && err != registry.ErrExists {
		log.Fatalf("register profile: %v", err)
	}

	mgr, err := database.Open(database.TypeSQLite, params, cfg.Dirs.Data, cfg.Database.LogMode)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer mgr.Close()

	if err := catalog.EnsureDefaults(mgr.DB()); err != nil {
		log.Fatalf("seed categories: %v", err)
	}

	session := mgr.Session()
	var categories []models.Category
	if err := session.Find(&categories).Error; err != nil {
		log.Fatalf("load categories: %v", err)
	}
	// default names carry an icon prefix ("💼 Salary"), match by suffix
	categoryIDs := map[string]uint{}
	for _, cat := range categories {
		if i := strings.Index(cat.Name, " "); i >= 0 {
			categoryIDs[cat.Name[i+1:]] = cat.ID
		}
		categoryIDs[cat.Name] = cat.ID
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	now := time.Now().UTC()
	created := 0
	for _, s := range samples {
		catID, ok := categoryIDs[s.category]
		if !ok {
			log.Printf("skip %q: category %q missing", s.description, s.category)
			continue
		}
		jitter := 1 + (rng.Float64()*0.2 - 0.1)
		tx := models.Transaction{
			Date:            now.AddDate(0, 0, -rng.Intn(90)),
			Amount:          round2(s.amount * jitter),
			Description:     s.description,
			CategoryID:      catID,
			TransactionType: s.txType,
			RecurrenceType:  models.RecurrenceNone,
		}
		if err := session.Create(&tx).Error; err != nil {
			log.Fatalf("create transaction: %v", err)
		}
		created++
	}

	fmt.Printf("created %d transactions in %s\n", created, mgr.FilePath())
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}

func confirm(prompt string) bool {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	line = strings.ToLower(strings.TrimSpace(line))
	return line == "y" || line == "yes"
}
