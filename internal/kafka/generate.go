package kafka

//go:generate mockgen -source=consumer.go -destination=mocks/mock_consumer.go -package=mocks
