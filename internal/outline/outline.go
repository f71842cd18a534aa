package outline

import (
	"errors"
	"fmt"
)

// ErrNotFound возвращается, когда номер вопроса выходит за пределы структуры
var ErrNotFound = errors.New("question not found")

// Outline представляет структуру вопросов набора: упорядоченный список тем
type Outline struct {
	Topics []Topic `json:"topics"`
}

// Topic представляет одну тему с её вопросами
type Topic struct {
	Topic     string   `json:"topic"`
	Questions []string `json:"questions"`
}

// Question представляет один вопрос вместе с его позиционным номером
type Question struct {
	ID    int    `json:"id"`
	Text  string `json:"text"`
	Topic string `json:"topic"`
}

// Resolve находит вопрос по сквозному порядковому номеру (нумерация с 1,
// по порядку тем, внутри темы — по порядку вопросов). Номера нигде не
// хранятся и пересчитываются при каждом обращении: перестановка или
// удаление вопросов меняет номера всех последующих ответов.
func Resolve(o Outline, ordinal int) (Question, error) {
	if ordinal < 1 {
		return Question{}, fmt.Errorf("%w: ordinal %d", ErrNotFound, ordinal)
	}

	index := 0
	for _, topic := range o.Topics {
		for _, text := range topic.Questions {
			index++
			if index == ordinal {
				return Question{ID: index, Text: text, Topic: topic.Topic}, nil
			}
		}
	}

	return Question{}, fmt.Errorf("%w: ordinal %d", ErrNotFound, ordinal)
}

// TotalCount возвращает общее количество вопросов во всех темах
func TotalCount(o Outline) int {
	count := 0
	for _, topic := range o.Topics {
		count += len(topic.Questions)
	}
	return count
}

// Default возвращает структуру, которая создается при первом чтении
// несуществующего файла вопросов
func Default() Outline {
	return Outline{
		Topics: []Topic{
			{
				Topic: "Sample Topic",
				Questions: []string{
					"Sample Question 1",
					"Sample Question 2",
				},
			},
		},
	}
}

// Example возвращает структуру, которая записывается при явном создании
// нового набора вопросов
func Example() Outline {
	return Outline{
		Topics: []Topic{
			{
				Topic: "Example Topic",
				Questions: []string{
					"This is an example question?",
				},
			},
		},
	}
}
