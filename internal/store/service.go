package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"interview-recorder/internal/outline"
)

const (
	questionsFile  = "questions.json"
	audioDir       = "audio_files"
	transcriptsDir = "transcriptions"
	audioExtension = ".m4a"
	transcriptExt  = ".txt"
	recordOpenTag  = "<topic>"
)

// ErrInvalidSetName возвращается для имен наборов, которые выходят
// за пределы каталога данных
var ErrInvalidSetName = errors.New("invalid question set name")

// Service управляет файлами наборов вопросов: структурой вопросов,
// аудиозаписями и транскриптами. Владеет жизненным циклом всех артефактов,
// конвейер обработки работает только через его методы.
type Service struct {
	root  string
	locks *lockTable
}

// New создает сервис хранения поверх указанного каталога данных
func New(dataDir string) *Service {
	return &Service{
		root:  filepath.Join(dataDir, "question_sets"),
		locks: newLockTable(),
	}
}

func (s *Service) setPath(setName string) string {
	return filepath.Join(s.root, setName)
}

func (s *Service) audioPath(setName string, id int) string {
	return filepath.Join(s.setPath(setName), audioDir, strconv.Itoa(id)+audioExtension)
}

func (s *Service) transcriptPath(setName string, id int) string {
	return filepath.Join(s.setPath(setName), transcriptsDir, strconv.Itoa(id)+transcriptExt)
}

// ValidateSetName проверяет, что имя набора можно безопасно использовать
// как имя подкаталога
func ValidateSetName(setName string) error {
	if setName == "" || setName == "." || setName == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidSetName, setName)
	}
	if strings.ContainsAny(setName, "/\\") {
		return fmt.Errorf("%w: %q", ErrInvalidSetName, setName)
	}
	return nil
}

// ensureSkeleton создает каталоги набора, если их еще нет
func (s *Service) ensureSkeleton(setName string) error {
	for _, dir := range []string{
		s.setPath(setName),
		filepath.Join(s.setPath(setName), audioDir),
		filepath.Join(s.setPath(setName), transcriptsDir),
	} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("ошибка создания каталога %s: %w", dir, err)
		}
	}
	return nil
}

// LoadOutline читает структуру вопросов набора. Если файла вопросов еще нет,
// записывает структуру по умолчанию и возвращает её: первое чтение нового
// набора создает его — это часть контракта, а не ошибка.
func (s *Service) LoadOutline(setName string) (outline.Outline, error) {
	path := filepath.Join(s.setPath(setName), questionsFile)

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return outline.Outline{}, fmt.Errorf("ошибка чтения файла вопросов %s: %w", path, err)
		}
		log.Printf("Файл вопросов для набора %s не найден, создаем структуру по умолчанию", setName)
		def := outline.Default()
		if err := s.SaveOutline(setName, def); err != nil {
			return outline.Outline{}, err
		}
		return def, nil
	}

	var o outline.Outline
	if err := json.Unmarshal(data, &o); err != nil {
		return outline.Outline{}, fmt.Errorf("ошибка парсинга файла вопросов %s: %w", path, err)
	}
	return o, nil
}

// SaveOutline целиком перезаписывает структуру вопросов набора
func (s *Service) SaveOutline(setName string, o outline.Outline) error {
	if err := s.ensureSkeleton(setName); err != nil {
		return err
	}

	data, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return fmt.Errorf("ошибка сериализации вопросов: %w", err)
	}

	path := filepath.Join(s.setPath(setName), questionsFile)
	if err := writeFileAtomic(path, data, 0644); err != nil {
		return fmt.Errorf("ошибка записи файла вопросов %s: %w", path, err)
	}
	return nil
}

// HasAudio сообщает, записан ли ответ на вопрос
func (s *Service) HasAudio(setName string, id int) bool {
	_, err := os.Stat(s.audioPath(setName, id))
	return err == nil
}

// AudioMetadata содержит сведения об аудиофайле ответа
type AudioMetadata struct {
	Exists      bool
	Size        int64
	Permissions string
}

// AudioMetadata возвращает сведения об аудиофайле; отсутствие файла
// не считается ошибкой
func (s *Service) AudioMetadata(setName string, id int) (AudioMetadata, error) {
	info, err := os.Stat(s.audioPath(setName, id))
	if err != nil {
		if os.IsNotExist(err) {
			return AudioMetadata{Exists: false}, nil
		}
		return AudioMetadata{}, fmt.Errorf("ошибка чтения метаданных аудио: %w", err)
	}
	return AudioMetadata{
		Exists:      true,
		Size:        info.Size(),
		Permissions: fmt.Sprintf("%03o", info.Mode().Perm()),
	}, nil
}

// WriteAudio сохраняет каноничное аудио ответа, заменяя предыдущую запись.
// Файл появляется для читателей только целиком, через переименование.
func (s *Service) WriteAudio(setName string, id int, data []byte) error {
	if err := s.ensureSkeleton(setName); err != nil {
		return err
	}
	path := s.audioPath(setName, id)
	if err := writeFileAtomic(path, data, 0644); err != nil {
		return fmt.Errorf("ошибка записи аудио %s: %w", path, err)
	}
	return nil
}

// DeleteAnswer удаляет аудиозапись и транскрипт ответа. Каждое удаление
// независимо, отсутствие файла — не ошибка, а неожиданные сбои ввода-вывода
// логируются и проглатываются, чтобы удаление оставалось идемпотентным.
// Удаление берет тот же ключевой мьютекс, что и конвейер: протокол замены
// "проверить — удалить — записать" полностью сериализован по паре.
func (s *Service) DeleteAnswer(setName string, id int) {
	unlock := s.Lock(setName, id)
	defer unlock()

	if err := os.Remove(s.audioPath(setName, id)); err != nil && !os.IsNotExist(err) {
		log.Printf("Не удалось удалить аудиофайл %s: %v", s.audioPath(setName, id), err)
	}
	if err := os.Remove(s.transcriptPath(setName, id)); err != nil && !os.IsNotExist(err) {
		log.Printf("Не удалось удалить транскрипт %s: %v", s.transcriptPath(setName, id), err)
	}
}

// ReadTranscript возвращает сохраненный транскрипт ответа; если транскрипта
// нет, возвращает пустую строку без ошибки
func (s *Service) ReadTranscript(setName string, id int) (string, error) {
	data, err := os.ReadFile(s.transcriptPath(setName, id))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("ошибка чтения транскрипта: %w", err)
	}
	return string(data), nil
}

// WriteTranscript сохраняет транскрипт ответа одной структурированной
// записью, перезаписывая предыдущую. Запись начинается ровно с тега <topic>:
// на это опирается выгрузка всех транскриптов.
func (s *Service) WriteTranscript(setName string, id int, questionText, answerText string) error {
	if err := s.ensureSkeleton(setName); err != nil {
		return err
	}

	record := fmt.Sprintf("%s<question>%s</question><answer>%s</answer></topic>",
		recordOpenTag, questionText, answerText)

	path := s.transcriptPath(setName, id)
	if err := writeFileAtomic(path, []byte(record), 0644); err != nil {
		return fmt.Errorf("ошибка записи транскрипта %s: %w", path, err)
	}
	return nil
}

// AllTranscripts склеивает все сохраненные записи транскриптов в порядке
// возрастания номеров вопросов. Порядок числовой, не лексикографический:
// "10" идет после "9". Файлы без открывающего тега пропускаются.
func (s *Service) AllTranscripts(setName string) (string, error) {
	dir := filepath.Join(s.setPath(setName), transcriptsDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("ошибка чтения каталога транскриптов %s: %w", dir, err)
	}

	var ids []int
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, transcriptExt) {
			continue
		}
		id, err := strconv.Atoi(strings.TrimSuffix(name, transcriptExt))
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	sort.Ints(ids)

	var all strings.Builder
	for _, id := range ids {
		content, err := s.ReadTranscript(setName, id)
		if err != nil {
			return "", err
		}
		start := strings.Index(content, recordOpenTag)
		if start == -1 {
			log.Printf("Транскрипт %d набора %s не содержит ожидаемого тега %s", id, setName, recordOpenTag)
			continue
		}
		all.WriteString(content[start:])
		all.WriteString("\n")
	}
	return all.String(), nil
}

// CreateSet создает каркас нового набора с примером структуры вопросов
func (s *Service) CreateSet(setName string) error {
	if err := ValidateSetName(setName); err != nil {
		return err
	}
	return s.SaveOutline(setName, outline.Example())
}

// DeleteSet рекурсивно удаляет набор со всеми артефактами
func (s *Service) DeleteSet(setName string) error {
	if err := ValidateSetName(setName); err != nil {
		return err
	}
	if err := os.RemoveAll(s.setPath(setName)); err != nil {
		return fmt.Errorf("ошибка удаления набора %s: %w", setName, err)
	}
	return nil
}

// CloneInto копирует структуру вопросов набора в новый набор. Аудио и
// транскрипты не копируются: клон начинается без ответов.
func (s *Service) CloneInto(sourceSetName, targetSetName string) error {
	if err := ValidateSetName(targetSetName); err != nil {
		return err
	}

	data, err := os.ReadFile(filepath.Join(s.setPath(sourceSetName), questionsFile))
	if err != nil {
		return fmt.Errorf("ошибка чтения вопросов набора %s: %w", sourceSetName, err)
	}

	if err := s.ensureSkeleton(targetSetName); err != nil {
		return err
	}
	path := filepath.Join(s.setPath(targetSetName), questionsFile)
	if err := writeFileAtomic(path, data, 0644); err != nil {
		return fmt.Errorf("ошибка записи вопросов набора %s: %w", targetSetName, err)
	}
	return nil
}

// ListSets возвращает имена наборов, у которых есть читаемый файл вопросов
func (s *Service) ListSets() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("ошибка чтения каталога наборов %s: %w", s.root, err)
	}

	sets := []string{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.root, entry.Name(), questionsFile))
		if err != nil {
			continue
		}
		var o outline.Outline
		if err := json.Unmarshal(data, &o); err != nil {
			continue
		}
		sets = append(sets, entry.Name())
	}
	return sets, nil
}

// writeFileAtomic записывает файл через уникальное временное имя и
// переименование: параллельный читатель не увидит запись наполовину,
// а два параллельных писателя не перемешают свои байты в одном
// временном файле
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}
