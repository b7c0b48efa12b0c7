package storage

// Storage объединяет все интерфейсы хранилища сервера.
// Реализуется драйверами sqlite и boltdb.
type Storage interface {
	UserStorage
	DateStorage
	TokenStorage

	// Close освобождает ресурсы хранилища
	Close() error
}
