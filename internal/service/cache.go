// Пакет service — бизнес-логика Dashboard Module.
// cache.go — кэш запросов к тьюторинг-сервису: ключи-кортежи,
// окно устаревания на пространство имён, дедупликация одновременных
// запросов (singleflight) и явная инвалидация при мутациях.
// Обёртка над hashicorp/golang-lru/v2/expirable.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/singleflight"
)

// Prometheus-метрики кэша запросов.
var (
	cacheHitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dm_cache_hits_total",
		Help: "Общее количество попаданий в кэш запросов.",
	}, []string{"namespace"})
	cacheMissesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dm_cache_misses_total",
		Help: "Общее количество промахов кэша запросов.",
	}, []string{"namespace"})
	cacheInvalidationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dm_cache_invalidations_total",
		Help: "Общее количество инвалидаций ключей кэша запросов.",
	}, []string{"namespace"})
)

// keySeparator разделяет сегменты ключа в каноническом виде.
// Unit Separator не встречается в идентификаторах и названиях предметов.
const keySeparator = "\x1f"

// Key — упорядоченный кортеж сегментов ключа кэша,
// например Key{"tutor", "recommendations", "math"}.
type Key []string

// K собирает ключ из сегментов.
func K(segments ...string) Key {
	return Key(segments)
}

// String возвращает каноническую строковую форму ключа.
// Для одинаковых кортежей форма стабильна, для разных — различна.
func (k Key) String() string {
	return strings.Join(k, keySeparator)
}

// Cache — кэш одного пространства имён с фиксированным окном устаревания.
// Каждый экземпляр Dashboard Module держит собственный in-memory кэш
// (per-instance, stateless архитектура).
//
// Гарантия координации: не более одного запроса к источнику на ключ
// одновременно — все конкурентные вызовы GetOrFetch с одним ключом
// разделяют результат единственного запроса.
type Cache[V any] struct {
	namespace string
	lru       *expirable.LRU[string, V]
	flight    singleflight.Group
}

// NewCache создаёт кэш пространства имён namespace.
// maxSize — максимальное количество записей.
// staleness — окно устаревания: по истечении запись вытесняется
// и следующий GetOrFetch выполняет повторный запрос к источнику.
func NewCache[V any](namespace string, maxSize int, staleness time.Duration) *Cache[V] {
	return &Cache[V]{
		namespace: namespace,
		lru:       expirable.NewLRU[string, V](maxSize, nil, staleness),
	}
}

// GetOrFetch возвращает значение по ключу: из кэша, если запись свежая,
// иначе — через fetch. Конкурентные вызовы с одним ключом дедуплицируются:
// fetch выполняется один раз, результат получают все ожидающие.
// Ошибка fetch не кэшируется и возвращается без изменений; повторных
// попыток этот слой не делает.
func (c *Cache[V]) GetOrFetch(ctx context.Context, key Key, fetch func(ctx context.Context) (V, error)) (V, error) {
	k := key.String()

	if val, ok := c.lru.Get(k); ok {
		cacheHitsTotal.WithLabelValues(c.namespace).Inc()
		return val, nil
	}
	cacheMissesTotal.WithLabelValues(c.namespace).Inc()

	v, err, _ := c.flight.Do(k, func() (any, error) {
		// Пока вызов ждал своей очереди, значение могло появиться
		if val, ok := c.lru.Get(k); ok {
			return val, nil
		}

		val, fetchErr := fetch(ctx)
		if fetchErr != nil {
			return nil, fetchErr
		}

		c.lru.Add(k, val)
		return val, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}

	return v.(V), nil
}

// Invalidate помечает указанные ключи устаревшими: записи удаляются,
// следующий GetOrFetch выполнит свежий запрос. Вызывается только после
// подтверждённого успеха мутации.
func (c *Cache[V]) Invalidate(keys ...Key) {
	for _, key := range keys {
		if c.lru.Remove(key.String()) {
			cacheInvalidationsTotal.WithLabelValues(c.namespace).Inc()
		}
	}
}

// Len возвращает текущее количество записей (для диагностики).
func (c *Cache[V]) Len() int {
	return c.lru.Len()
}
