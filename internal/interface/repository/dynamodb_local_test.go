package repository

import (
	"os"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/ory/dockertest/v3"
)

// dynamodbStart runs amazon/dynamodb-local in docker and returns a client for it
func dynamodbStart(t *testing.T) (func(), *dynamodb.DynamoDB) {
	if testing.Short() || os.Getenv("SKIP_DOCKER_TESTS") != "" {
		t.Skip("docker backed test skipped")
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("Could not connect to docker: %s", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("Docker is not reachable: %s", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository:   "amazon/dynamodb-local",
		Tag:          "latest",
		ExposedPorts: []string{"8000"},
	})
	if err != nil {
		t.Fatalf("Could not start resource: %s", err)
	}

	closer := func() {
		if err := pool.Purge(resource); err != nil {
			t.Fatal(err)
		}
	}

	sess := session.Must(session.NewSession(&aws.Config{
		Region:      aws.String("us-east-1"),
		Endpoint:    aws.String("http://" + resource.GetHostPort("8000/tcp")),
		Credentials: credentials.NewStaticCredentials("x", "x", ""),
	}))
	client := dynamodb.New(sess)

	err = pool.Retry(func() error {
		_, err := client.ListTables(&dynamodb.ListTablesInput{})
		return err
	})
	if err != nil {
		closer()
		t.Fatalf("Could not connect to resource: %s", err)
	}

	return closer, client
}

func createSessionTable(t *testing.T, client *dynamodb.DynamoDB, table string) {
	_, err := client.CreateTable(&dynamodb.CreateTableInput{
		TableName: aws.String(table),
		AttributeDefinitions: []*dynamodb.AttributeDefinition{
			{
				AttributeName: aws.String("id"),
				AttributeType: aws.String("S"),
			},
		},
		KeySchema: []*dynamodb.KeySchemaElement{
			{
				AttributeName: aws.String("id"),
				KeyType:       aws.String("HASH"),
			},
		},
		ProvisionedThroughput: &dynamodb.ProvisionedThroughput{
			ReadCapacityUnits:  aws.Int64(5),
			WriteCapacityUnits: aws.Int64(5),
		},
	})
	if err != nil {
		t.Fatalf("Error while creating session table: %v", err)
	}
}
