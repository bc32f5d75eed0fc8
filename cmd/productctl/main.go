package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync/atomic"
	"syscall"

	"github.com/SIXMAR729/product-cli-project/internal/client"
	"github.com/SIXMAR729/product-cli-project/internal/handler"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

const defaultExportFile = "products_export.json"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := &cli.Command{
		Name:  "productctl",
		Usage: "Manage products and orders of the inventory service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Usage:   "Base URL of the inventory server",
				Value:   "http://localhost:50051",
				Sources: cli.EnvVars("INVENTORY_SERVER"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Add a new product",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "Name of the product", Required: true},
					&cli.Float64Flag{Name: "price", Usage: "Price of the product", Required: true},
					&cli.StringFlag{Name: "description", Usage: "Description of the product"},
				},
				Action: addAction,
			},
			{
				Name:  "edit",
				Usage: "Edit an existing product (only supplied fields change)",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Usage: "ID of the product to edit", Required: true},
					&cli.StringFlag{Name: "name", Usage: "New name"},
					&cli.StringFlag{Name: "description", Usage: "New description"},
					&cli.Float64Flag{Name: "price", Usage: "New price"},
				},
				Action: editAction,
			},
			{
				Name:  "delete",
				Usage: "Delete a product",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Usage: "ID of the product to delete", Required: true},
				},
				Action: deleteAction,
			},
			{
				Name:  "get",
				Usage: "Show a single product",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Usage: "ID of the product", Required: true},
				},
				Action: getAction,
			},
			{
				Name:   "list",
				Usage:  "List all products",
				Action: listAction,
			},
			{
				Name:   "count",
				Usage:  "Count all products",
				Action: countAction,
			},
			{
				Name:  "export",
				Usage: "Export all products to a JSON file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "file", Usage: "Output file", Value: defaultExportFile},
				},
				Action: exportAction,
			},
			{
				Name:  "import",
				Usage: "Import products from a JSON file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "file", Usage: "Input file", Required: true},
					&cli.IntFlag{Name: "concurrency", Usage: "Parallel requests", Value: 4},
				},
				Action: importAction,
			},
			{
				Name:  "order",
				Usage: "Order commands",
				Commands: []*cli.Command{
					{
						Name:  "create",
						Usage: "Create an order from product_id:quantity pairs",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "customer", Usage: "Customer ID", Required: true},
							&cli.StringSliceFlag{Name: "item", Usage: "Line item as product_id:quantity (repeatable)", Required: true},
						},
						Action: orderCreateAction,
					},
					{
						Name:  "get",
						Usage: "Show a single order",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "id", Usage: "ID of the order", Required: true},
						},
						Action: orderGetAction,
					},
					{
						Name:   "count",
						Usage:  "Count all orders",
						Action: orderCountAction,
					},
				},
			},
		},
	}

	if err := cmd.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	godotenv.Load()
}

func apiClient(cmd *cli.Command) *client.Client {
	return client.New(cmd.String("server"))
}

func addAction(ctx context.Context, cmd *cli.Command) error {
	product, err := apiClient(cmd).AddProduct(ctx, handler.AddProductRequest{
		Name:        cmd.String("name"),
		Description: cmd.String("description"),
		Price:       cmd.Float64("price"),
	})
	if err != nil {
		return err
	}

	fmt.Println("product created:")
	printProduct(product)
	return nil
}

func editAction(ctx context.Context, cmd *cli.Command) error {
	var req handler.EditProductRequest
	if cmd.IsSet("name") {
		name := cmd.String("name")
		req.Name = &name
	}
	if cmd.IsSet("description") {
		description := cmd.String("description")
		req.Description = &description
	}
	if cmd.IsSet("price") {
		price := cmd.Float64("price")
		req.Price = &price
	}

	product, err := apiClient(cmd).EditProduct(ctx, cmd.String("id"), req)
	if err != nil {
		return err
	}

	fmt.Println("product updated:")
	printProduct(product)
	return nil
}

func deleteAction(ctx context.Context, cmd *cli.Command) error {
	id := cmd.String("id")
	if err := apiClient(cmd).DeleteProduct(ctx, id); err != nil {
		return err
	}
	fmt.Printf("product %s deleted\n", id)
	return nil
}

func getAction(ctx context.Context, cmd *cli.Command) error {
	product, err := apiClient(cmd).GetProduct(ctx, cmd.String("id"))
	if err != nil {
		return err
	}
	printProduct(product)
	return nil
}

func listAction(ctx context.Context, cmd *cli.Command) error {
	products, err := apiClient(cmd).ListProducts(ctx)
	if err != nil {
		return err
	}

	if len(products) == 0 {
		fmt.Println("(no products found)")
		return nil
	}
	for _, p := range products {
		printProduct(p)
	}
	return nil
}

func countAction(ctx context.Context, cmd *cli.Command) error {
	count, err := apiClient(cmd).CountProducts(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("total products: %d\n", count)
	return nil
}

func exportAction(ctx context.Context, cmd *cli.Command) error {
	products, err := apiClient(cmd).ListProducts(ctx)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal products: %w", err)
	}

	file := cmd.String("file")
	if err := os.WriteFile(file, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", file, err)
	}

	fmt.Printf("exported %d products to %s\n", len(products), file)
	return nil
}

func importAction(ctx context.Context, cmd *cli.Command) error {
	data, err := os.ReadFile(cmd.String("file"))
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	var products []handler.AddProductRequest
	if err := json.Unmarshal(data, &products); err != nil {
		return fmt.Errorf("failed to parse input file: %w", err)
	}

	api := apiClient(cmd)
	var imported atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cmd.Int("concurrency"))
	for _, p := range products {
		g.Go(func() error {
			created, err := api.AddProduct(ctx, p)
			if err != nil {
				return fmt.Errorf("failed to import %q: %w", p.Name, err)
			}
			fmt.Printf("imported %q as %s\n", created.Name, created.ProductID)
			imported.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Printf("imported %d products\n", imported.Load())
	return nil
}

func orderCreateAction(ctx context.Context, cmd *cli.Command) error {
	items := make([]handler.LineItemInput, 0)
	for _, raw := range cmd.StringSlice("item") {
		item, err := parseLineItem(raw)
		if err != nil {
			return err
		}
		items = append(items, item)
	}

	order, err := apiClient(cmd).CreateOrder(ctx, handler.CreateOrderRequest{
		CustomerID: cmd.String("customer"),
		Items:      items,
	})
	if err != nil {
		return err
	}

	fmt.Println("order created:")
	printOrder(order)
	return nil
}

func orderGetAction(ctx context.Context, cmd *cli.Command) error {
	order, err := apiClient(cmd).GetOrder(ctx, cmd.String("id"))
	if err != nil {
		return err
	}
	printOrder(order)
	return nil
}

func orderCountAction(ctx context.Context, cmd *cli.Command) error {
	count, err := apiClient(cmd).CountOrders(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("total orders: %d\n", count)
	return nil
}

func parseLineItem(raw string) (handler.LineItemInput, error) {
	i := strings.LastIndex(raw, ":")
	if i <= 0 || i == len(raw)-1 {
		return handler.LineItemInput{}, fmt.Errorf("invalid line item %q, expected product_id:quantity", raw)
	}

	quantity, err := strconv.Atoi(raw[i+1:])
	if err != nil {
		return handler.LineItemInput{}, fmt.Errorf("invalid quantity in line item %q", raw)
	}

	return handler.LineItemInput{ProductID: raw[:i], Quantity: quantity}, nil
}

func printProduct(p handler.Product) {
	fmt.Printf("  - id: %s, name: %s, price: %.2f", p.ProductID, p.Name, p.Price)
	if p.Description != "" {
		fmt.Printf(", description: %s", p.Description)
	}
	fmt.Println()
}

func printOrder(o handler.Order) {
	fmt.Printf("  - id: %s, customer: %s, total: %.2f, created: %s\n",
		o.OrderID, o.CustomerID, o.TotalAmount, o.CreatedAt.Format("2006-01-02 15:04:05"))
	for _, it := range o.Items {
		fmt.Printf("      %s x%d @ %.2f\n", it.ProductID, it.Quantity, it.Price)
	}
}
