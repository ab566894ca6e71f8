package main

import (
	"context"
	"os"
	"time"

	"github.com/locvowork/lazysheet/internal/config"
	"github.com/locvowork/lazysheet/internal/logger"
	"github.com/locvowork/lazysheet/internal/server"
	"github.com/locvowork/lazysheet/pkg/lazysheet"
	"github.com/locvowork/lazysheet/pkg/lazysheet/sqlsource"
)

type employee struct {
	ID        int64     `db:"emp_no" excel:"header:ID,order:1"`
	FirstName string    `db:"first_name" excel:"header:First Name,order:2"`
	LastName  string    `db:"last_name" excel:"header:Last Name,order:3"`
	Gender    string    `db:"gender" excel:"header:Gender,order:4,align:center"`
	HireDate  time.Time `db:"hire_date" excel:"header:Hire Date,order:5,numfmt:14"`
}

type salary struct {
	EmployeeID int64     `db:"emp_no" excel:"header:Employee,order:1"`
	Amount     int64     `db:"amount" excel:"header:Salary,order:2,numfmt:3,subtotal"`
	FromDate   time.Time `db:"from_date" excel:"header:From,order:3,numfmt:14"`
	ToDate     time.Time `db:"to_date" excel:"header:To,order:4,numfmt:14"`
}

func main() {
	ctx := context.Background()

	cfg, err := config.LoadEnvConfig()
	if err != nil {
		panic(err)
	}

	app := server.NewApp(cfg)
	if err := app.Initialize(ctx); err != nil {
		logger.ErrorLogWithErr(ctx, err, "Failed to initialize application")
		os.Exit(1)
	}

	app.RegisterReport("employees", server.QueryReport[employee]("Employees",
		sqlsource.Select("emp_no", "first_name", "last_name", "gender", "hire_date").
			From("employees.employee").
			OrderBy("emp_no").
			Limit(10000),
		func(sb *lazysheet.SheetBuilder[employee]) {
			sb.AllFields().Freeze(1, 1)
		},
	))
	app.RegisterReport("salaries", server.QueryReport[salary]("Salaries",
		sqlsource.Select("emp_no", "amount", "from_date", "to_date").
			From("employees.salary").
			Where("to_date > ?", time.Now()).
			OrderBy("amount DESC").
			Limit(10000),
	))

	if err := app.Run(); err != nil {
		logger.ErrorLogWithErr(ctx, err, "Server stopped")
		os.Exit(1)
	}
}
