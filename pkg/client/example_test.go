package client_test

import (
	"context"
	"fmt"
	"log"

	"github.com/pratik-mahalle/voltcast-alerts/pkg/client"
)

// Example demonstrates basic usage of the alerting client
func Example() {
	c := client.NewClient(client.Config{
		BaseURL: "http://localhost:8080",
	})

	ctx := context.Background()

	rule, err := c.Rules().Create(ctx, client.CreateRuleRequest{
		UserID:          "owner@example.com",
		MetricType:      "battery_capacity",
		ThresholdValue:  20,
		Condition:       client.ConditionLessThan,
		DeliveryChannel: client.ChannelEmail,
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Created rule %d\n", rule.ID)
}

// ExampleClient_Ingest demonstrates pushing a measurement
func ExampleClient_Ingest() {
	c := client.NewClient(client.Config{
		BaseURL: "http://localhost:8080",
	})

	err := c.Ingest(context.Background(), client.Measurement{
		UserID:     "owner@example.com",
		MetricType: "battery_capacity",
		Value:      15,
	})
	if err != nil {
		log.Fatal(err)
	}
}
